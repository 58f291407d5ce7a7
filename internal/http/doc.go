// Package http exposes the blog over net/http.
//
// Public routes:
//   - GET /s/{code}: short link redirect, ?lang= overrides Accept-Language
//   - GET /{locale}/blog/{slug} and GET /{locale}/landing/{slug}
//   - GET /sitemap.xml
//
// Admin routes mount under /admin/api:
//   - Variants: /variants, /variants/{id}, /variants/{id}/translations,
//     /variants/{id}/status, /variants/{id}/schedule, /variants/{id}/short-code,
//     /variants/{id}/stats, /variants/publish-due
//   - Group preview: /groups/{group}
package http
