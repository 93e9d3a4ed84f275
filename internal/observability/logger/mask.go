package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Email crea un campo con el email enmascarado: "a…@e….com".
func Email(v string) zap.Field {
	return zap.String("email", MaskEmail(v))
}

// Login crea un campo para un login (nombre o email). Los emails se enmascaran.
func Login(v string) zap.Field {
	if strings.Contains(v, "@") {
		return zap.String("login", MaskEmail(v))
	}
	return zap.String("login", v)
}

// MaskEmail deja la primera letra del usuario y del dominio; el TLD queda visible.
// Un valor sin '@' se trata como opaco.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		switch {
		case s == "":
			return ""
		case len(s) <= 3:
			return "***"
		}
		return s[:1] + "…" + s[len(s)-1:]
	}

	local, domain := s[:at], s[at+1:]
	labels := strings.Split(domain, ".")
	if len(labels[0]) > 1 {
		labels[0] = labels[0][:1] + "…"
	}
	if len(local) > 1 {
		local = local[:1] + "…"
	}
	return local + "@" + strings.Join(labels, ".")
}
