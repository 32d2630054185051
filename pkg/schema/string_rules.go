package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// formats backs the well-known string formats. validator.Validate is safe for
// concurrent use once configured.
var formats = validator.New()

var tokenRegex = regexp.MustCompile(`^\w+$`)

var stringOperations = map[string]operation{
	"min":    stringLength("min", `"%s" length must be at least %d characters long`, func(n, limit int) bool { return n >= limit }),
	"max":    stringLength("max", `"%s" length must be less than or equal to %d characters long`, func(n, limit int) bool { return n <= limit }),
	"length": stringLength("length", `"%s" length must be %d characters long`, func(n, limit int) bool { return n == limit }),

	"pattern": {arity: arityOneOrTwo, apply: applyPattern("pattern")},
	"regex":   {arity: arityOneOrTwo, apply: applyPattern("regex")},

	"alphanum":   stringCheck("alphanum", "string.alphanum", `"%s" must only contain alpha-numeric characters`, format("alphanum")),
	"token":      stringCheck("token", "string.token", `"%s" must only contain alpha-numeric and underscore characters`, tokenRegex.MatchString),
	"email":      stringCheck("email", "string.email", `"%s" must be a valid email`, format("email")),
	"uri":        stringCheck("uri", "string.uri", `"%s" must be a valid uri`, format("uri")),
	"guid":       stringCheck("guid", "string.guid", `"%s" must be a valid GUID`, isGUID),
	"uuid":       stringCheck("uuid", "string.guid", `"%s" must be a valid GUID`, isGUID),
	"hex":        stringCheck("hex", "string.hex", `"%s" must only contain hexadecimal characters`, format("hexadecimal")),
	"base64":     stringCheck("base64", "string.base64", `"%s" must be a valid base64 string`, format("base64")),
	"ip":         stringCheck("ip", "string.ip", `"%s" must be a valid ip address`, isIP),
	"hostname":   stringCheck("hostname", "string.hostname", `"%s" must be a valid hostname`, format("hostname_rfc1123")),
	"lowercase":  stringCheck("lowercase", "string.lowercase", `"%s" must only contain lowercase characters`, func(s string) bool { return s == strings.ToLower(s) }),
	"uppercase":  stringCheck("uppercase", "string.uppercase", `"%s" must only contain uppercase characters`, func(s string) bool { return s == strings.ToUpper(s) }),
	"trim":       stringCheck("trim", "string.trim", `"%s" must not have leading or trailing whitespace`, func(s string) bool { return s == strings.TrimSpace(s) }),
	"creditCard": stringCheck("creditCard", "string.creditCard", `"%s" must be a credit card`, format("credit_card")),
	"isoDate":    stringCheck("isoDate", "string.isoDate", `"%s" must be in iso format`, func(s string) bool { _, ok := parseDate(s); return ok }),
}

func format(tag string) func(string) bool {
	return func(s string) bool {
		return formats.Var(s, tag) == nil
	}
}

func isGUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func isIP(s string) bool {
	return formats.Var(s, "ip") == nil || formats.Var(s, "cidr") == nil
}

func stringLength(op, tmpl string, cmp func(n, limit int) bool) operation {
	return operation{arity: arityOne, apply: func(s Schema, args []any) (Schema, error) {
		limit, err := intArg(args, 0)
		if err != nil {
			return s, err
		}
		return s.withRule(rule{
			name: op,
			code: "string." + op,
			check: func(_, typed any) bool {
				return cmp(utf8.RuneCountInString(typed.(string)), limit)
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(tmpl, label, limit)
			},
			context: map[string]any{"limit": limit},
		}), nil
	}}
}

func stringCheck(op, code, tmpl string, fn func(string) bool) operation {
	return operation{arity: arityNone, apply: func(s Schema, _ []any) (Schema, error) {
		return s.withRule(rule{
			name: op,
			code: code,
			check: func(_, typed any) bool {
				return fn(typed.(string))
			},
			message: func(label string, _ any) string {
				return fmt.Sprintf(tmpl, label)
			},
		}), nil
	}}
}

func applyPattern(op string) func(s Schema, args []any) (Schema, error) {
	return func(s Schema, args []any) (Schema, error) {
		expr, err := stringArg(args, 0)
		if err != nil {
			return s, err
		}
		re, err := compilePattern(expr)
		if err != nil {
			return s, err
		}

		var name string
		var invert bool
		if len(args) > 1 {
			name, invert, err = patternOptions(args[1])
			if err != nil {
				return s, err
			}
		}

		code := "string.pattern.base"
		switch {
		case invert && name != "":
			code = "string.pattern.invert.name"
		case invert:
			code = "string.pattern.invert.base"
		case name != "":
			code = "string.pattern.name"
		}

		return s.withRule(rule{
			name: op,
			code: code,
			check: func(_, typed any) bool {
				return re.MatchString(typed.(string)) != invert
			},
			message: func(label string, raw any) string {
				switch {
				case invert && name != "":
					return fmt.Sprintf(`"%s" with value "%v" matches the inverted %s pattern`, label, raw, name)
				case invert:
					return fmt.Sprintf(`"%s" with value "%v" matches the inverted pattern: %s`, label, raw, expr)
				case name != "":
					return fmt.Sprintf(`"%s" with value "%v" fails to match the %s pattern`, label, raw, name)
				default:
					return fmt.Sprintf(`"%s" with value "%v" fails to match the required pattern: %s`, label, raw, expr)
				}
			},
			context: map[string]any{"regex": expr, "name": name},
		}), nil
	}
}

// compilePattern accepts plain RE2 syntax or a /body/flags literal.
func compilePattern(expr string) (*regexp.Regexp, error) {
	if len(expr) > 1 && strings.HasPrefix(expr, "/") {
		if end := strings.LastIndex(expr, "/"); end > 0 {
			body, flags := expr[1:end], expr[end+1:]
			if strings.Trim(flags, "imsU") == "" {
				if flags != "" {
					body = "(?" + flags + ")" + body
				}
				return regexp.Compile(body)
			}
		}
	}
	return regexp.Compile(expr)
}

// patternOptions reads the optional second pattern argument: a name or a
// mapping with "name" and "invert".
func patternOptions(arg any) (string, bool, error) {
	if name, ok := arg.(string); ok {
		return name, false, nil
	}
	fields, _, ok := mapping(arg)
	if !ok {
		return "", false, fmt.Errorf("argument 2 must be a name or an options mapping, got %T", arg)
	}
	var name string
	var invert bool
	if v, ok := fields["name"]; ok {
		if name, ok = v.(string); !ok {
			return "", false, fmt.Errorf("pattern option name must be a string, got %T", v)
		}
	}
	if v, ok := fields["invert"]; ok {
		if invert, ok = v.(bool); !ok {
			return "", false, fmt.Errorf("pattern option invert must be a boolean, got %T", v)
		}
	}
	return name, invert, nil
}
