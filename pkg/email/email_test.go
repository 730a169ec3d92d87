package email

import (
	"strings"
	"testing"
)

func TestBuildEncodesAccentedSubject(t *testing.T) {
	raw := string(build(Message{
		From:    `"Vilo Assist Pro" <no-reply@viloassist.com>`,
		To:      "marie@example.com",
		Subject: "Réponse à votre demande",
		Text:    "Bonjour",
	}))

	if strings.Contains(raw, "Subject: Réponse") {
		t.Fatal("accented subject written raw into the header")
	}
	if !strings.Contains(raw, "Subject: =?utf-8?q?") {
		t.Fatalf("subject not q-encoded:\n%s", raw)
	}
}

func TestBuildKeepsASCIISubjectReadable(t *testing.T) {
	raw := string(build(Message{
		From:    "no-reply@viloassist.com",
		To:      "marie@example.com",
		Subject: "Nouveau contact - Marie",
		Text:    "Bonjour",
	}))

	if !strings.Contains(raw, "Subject: Nouveau contact - Marie\r\n") {
		t.Fatalf("ascii subject was rewritten:\n%s", raw)
	}
}

func TestExtractAddress(t *testing.T) {
	if got := extractAddress(`"Vilo Assist Pro" <no-reply@viloassist.com>`); got != "no-reply@viloassist.com" {
		t.Fatalf("got %q", got)
	}
	if got := extractAddress("no-reply@viloassist.com"); got != "no-reply@viloassist.com" {
		t.Fatalf("bare address mangled: %q", got)
	}
}
