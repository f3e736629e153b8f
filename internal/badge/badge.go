// Package badge renders the "Built with Cosmic" attribution widget: a
// dismissible floating link injected into every page. Dismissal is kept in the
// visitor's localStorage; the server holds no state for it.
package badge

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
)

// Widget constants.
const (
	DefaultBucketSlug = "your-bucket-slug"
	StorageKey        = "cosmic-badge-dismissed"
	LogoURL           = "https://cdn.cosmicjs.com/b67de7d0-c810-11ed-b01d-23d7b265c299-logo508x500.svg"
	Label             = "Built with Cosmic"

	showDelayMillis = 1000
)

var scriptTmpl = template.Must(template.New("badge").Parse(`<script>
document.addEventListener('DOMContentLoaded', function () {
  var storageKey = {{.StorageKey}};

  function createCosmicBadge() {
    if (localStorage.getItem(storageKey)) {
      return;
    }

    var badge = document.createElement('a');
    badge.id = 'cosmic-badge';
    badge.href = {{.Link}};
    badge.target = '_blank';
    badge.rel = 'noopener noreferrer';
    Object.assign(badge.style, {
      position: 'fixed',
      bottom: '20px',
      right: '20px',
      display: 'flex',
      alignItems: 'center',
      gap: '8px',
      color: '#11171A',
      textDecoration: 'none',
      fontSize: '14px',
      fontWeight: '500',
      backgroundColor: 'white',
      border: '1px solid #e5e7eb',
      padding: '12px 16px',
      width: '180px',
      borderRadius: '8px',
      zIndex: '50',
      boxShadow: '0 4px 12px rgba(0, 0, 0, 0.15)',
      transition: 'background-color 0.2s ease',
      fontFamily: 'system-ui, -apple-system, sans-serif'
    });

    var dismiss = document.createElement('button');
    dismiss.id = 'cosmic-dismiss';
    dismiss.type = 'button';
    dismiss.setAttribute('aria-label', 'Dismiss');
    dismiss.textContent = '×';
    Object.assign(dismiss.style, {
      position: 'absolute',
      top: '-8px',
      right: '-8px',
      width: '24px',
      height: '24px',
      background: '#f3f4f6',
      border: 'none',
      borderRadius: '50%',
      color: '#374151',
      fontSize: '16px',
      fontWeight: 'bold',
      cursor: 'pointer',
      display: 'flex',
      alignItems: 'center',
      justifyContent: 'center',
      transition: 'background-color 0.2s',
      zIndex: '10'
    });

    var logo = document.createElement('img');
    logo.src = {{.LogoURL}};
    logo.alt = 'Cosmic Logo';
    logo.style.width = '20px';
    logo.style.height = '20px';

    badge.appendChild(dismiss);
    badge.appendChild(logo);
    badge.appendChild(document.createTextNode({{.Label}}));
    document.body.appendChild(badge);

    dismiss.addEventListener('click', function (e) {
      e.preventDefault();
      e.stopPropagation();
      badge.remove();
      localStorage.setItem(storageKey, 'true');
    });
    dismiss.addEventListener('mouseenter', function () { dismiss.style.backgroundColor = '#e5e7eb'; });
    dismiss.addEventListener('mouseleave', function () { dismiss.style.backgroundColor = '#f3f4f6'; });
    badge.addEventListener('mouseenter', function () { badge.style.backgroundColor = '#f9fafb'; });
    badge.addEventListener('mouseleave', function () { badge.style.backgroundColor = 'white'; });
  }

  setTimeout(createCosmicBadge, {{.DelayMillis}});
});
</script>
`))

// Link returns the referral URL for a bucket.
func Link(bucketSlug string) string {
	if bucketSlug == "" {
		bucketSlug = DefaultBucketSlug
	}
	params := url.Values{}
	params.Set("utm_source", "bucket_"+bucketSlug)
	params.Set("utm_medium", "referral")
	params.Set("utm_campaign", "app_badge")
	params.Set("utm_content", "built_with_cosmic")
	return "https://www.cosmicjs.com?" + params.Encode()
}

// Render returns the widget markup for a bucket. The bucket slug is escaped
// for the script context it lands in.
func Render(bucketSlug string) (template.HTML, error) {
	var buf bytes.Buffer
	err := scriptTmpl.Execute(&buf, struct {
		StorageKey  string
		Link        string
		LogoURL     string
		Label       string
		DelayMillis int
	}{
		StorageKey:  StorageKey,
		Link:        Link(bucketSlug),
		LogoURL:     LogoURL,
		Label:       Label,
		DelayMillis: showDelayMillis,
	})
	if err != nil {
		return "", fmt.Errorf("render badge: %w", err)
	}
	//nolint:gosec // output of html/template, already escaped
	return template.HTML(buf.String()), nil
}
