// Package sanitizer normalizes user input held in struct fields.
//
// Fields opt in with a `sanitize` tag listing sanitizers to apply in order:
//
//	type Credentials struct {
//		Email    string `sanitize:"email"`
//		Password string
//	}
//
//	creds := Credentials{Email: "  Ada@Example.COM "}
//	_ = sanitizer.SanitizeStruct(&creds)
//	// creds.Email == "ada@example.com"
//
// Built-in names are trim, lower, single_line, no_spaces, no_control, email,
// text (control characters removed, whitespace collapsed) and max:N.
// RegisterSanitizer adds custom ones.
package sanitizer
