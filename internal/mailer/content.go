package mailer

import (
	"fmt"
	"regexp"
)

// Content is a composed subject/body pair for one notification type.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// BuildContent composes the mail body for a notification type from the
// recipient name and the transition payload. The text version is the HTML
// stripped of tags, for plain-text mail clients.
func BuildContent(typ, name string, data map[string]string) Content {
	var c Content
	switch typ {
	case "appointment":
		date := orDefault(data["date"], "date non spécifiée")
		heure := orDefault(data["time"], "heure non spécifiée")
		c.Subject = "Confirmation de votre rendez-vous - Vilo Assist"
		c.HTML = fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Votre rendez-vous est confirmé pour le %s à %s.</p><p>Merci de votre confiance.</p>",
			name, date, heure)
	default: // contact
		c.Subject = "Réponse à votre demande de contact - Vilo Assist"
		c.HTML = fmt.Sprintf(
			"<p>Bonjour %s,</p><p>Nous avons bien reçu votre message : <b>%s</b> concernant le service <b>%s</b>.</p><p>Nous vous répondrons rapidement.</p>",
			name, data["message"], data["service"])
	}
	c.Text = tagPattern.ReplaceAllString(c.HTML, "")
	return c
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
