// internal/service/template_service.go
package service

import (
	"strings"

	"github.com/unclebandit/followup-tracker/internal/model"
)

func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{"+k+"}", v)
	}
	return result
}

// stepContent keeps explicit content and fills gaps from the owner's template
// for that step, with {company_name} and {title} substituted.
func stepContent(given FollowUpContent, tmpl model.TemplateContent, c *model.Campaign) (subject, body string) {
	data := map[string]string{
		"company_name": c.CompanyNameCache,
		"title":        c.Title,
	}

	subject = given.Subject
	if strings.TrimSpace(subject) == "" {
		subject = RenderTemplate(tmpl.Subject, data)
	}

	body = given.Body
	if strings.TrimSpace(body) == "" {
		parts := []string{}
		for _, p := range []string{tmpl.OpeningLine, tmpl.Signature} {
			if strings.TrimSpace(p) != "" {
				parts = append(parts, RenderTemplate(p, data))
			}
		}
		body = strings.Join(parts, "\n\n")
	}
	return subject, body
}
