package insight

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/farm-insight/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldIssue names one field of a model response that was repaired or dropped.
type FieldIssue struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`
}

func (i FieldIssue) String() string {
	if i.Value == "" {
		return fmt.Sprintf("%s (%s)", i.Field, i.Tag)
	}
	return fmt.Sprintf("%s (%s: %q)", i.Field, i.Tag, i.Value)
}

// ValidationError lists every issue found in a model response. It matches
// apperr.ErrValidation with errors.Is.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("%s: %s", apperr.ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return apperr.ErrValidation
}

func issuesErr(issues []FieldIssue) error {
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// repair validates each item, lets fix substitute defaults for failing
// fields, and drops the item when fix reports the field is unrecoverable.
func repair[T any](path string, items []T, normalize func(*T), fix func(*T, string) bool) ([]T, []FieldIssue) {
	out := make([]T, 0, len(items))
	var issues []FieldIssue
	for i := range items {
		item := items[i]
		normalize(&item)

		keep := true
		err := validate.Struct(item)
		var verrs validator.ValidationErrors
		if err != nil && !errors.As(err, &verrs) {
			issues = append(issues, FieldIssue{Field: fmt.Sprintf("%s[%d]", path, i), Tag: "invalid"})
			continue
		}
		for _, fe := range verrs {
			issues = append(issues, FieldIssue{
				Field: fmt.Sprintf("%s[%d].%s", path, i, fe.Field()),
				Tag:   fe.Tag(),
				Value: fmt.Sprint(fe.Value()),
			})
			if !fix(&item, fe.Field()) {
				keep = false
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, issues
}

func enum[T ~string](v T) T {
	return T(strings.ToLower(strings.TrimSpace(string(v))))
}

func cleanItems(items []string) []string {
	out := items[:0:0]
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidateWeather repairs a decoded weather insight in place of rejecting it.
// Invalid enums fall back to general/medium, a missing message reuses the
// title, and items without a title are dropped. The returned error is a
// *ValidationError describing every repair, or nil.
func ValidateWeather(in WeatherInsight) (WeatherInsight, error) {
	alerts, issues := repair("alerts", in.Alerts,
		func(a *Alert) {
			a.Type, a.Severity = enum(a.Type), enum(a.Severity)
			a.Title, a.Message = strings.TrimSpace(a.Title), strings.TrimSpace(a.Message)
		},
		func(a *Alert, field string) bool {
			switch field {
			case "type":
				a.Type = AlertGeneral
			case "severity":
				a.Severity = SeverityMedium
			case "message":
				a.Message = a.Title
			case "title":
				return false
			}
			return true
		})

	guidance, more := repair("guidanceItems", in.Guidance,
		func(g *GuidanceGroup) {
			g.Category, g.Priority = enum(g.Category), enum(g.Priority)
			g.Title = strings.TrimSpace(g.Title)
			g.Items = cleanItems(g.Items)
		},
		func(g *GuidanceGroup, field string) bool {
			switch field {
			case "category":
				g.Category = CategoryGeneral
			case "priority":
				g.Priority = SeverityMedium
			case "title", "items":
				return false
			}
			return true
		})
	issues = append(issues, more...)

	out := WeatherInsight{
		Alerts:        alerts,
		Guidance:      guidance,
		GeneralAdvice: strings.TrimSpace(in.GeneralAdvice),
	}
	if out.GeneralAdvice == "" {
		issues = append(issues, FieldIssue{Field: "generalAdvice", Tag: "required"})
	}
	return out, issuesErr(issues)
}

// ValidateMarket is the market counterpart of ValidateWeather. Invalid impacts
// become neutral; a missing summary or description reuses the title or name.
func ValidateMarket(in MarketInsight) (MarketInsight, error) {
	news, issues := repair("news", in.News,
		func(n *NewsItem) {
			n.Impact = enum(n.Impact)
			n.Title, n.Summary = strings.TrimSpace(n.Title), strings.TrimSpace(n.Summary)
			n.Commodity = strings.TrimSpace(n.Commodity)
		},
		func(n *NewsItem, field string) bool {
			switch field {
			case "impact":
				n.Impact = ImpactNeutral
			case "summary":
				n.Summary = n.Title
			case "title":
				return false
			}
			return true
		})

	factors, more := repair("factors", in.Factors,
		func(f *Factor) {
			f.Impact = enum(f.Impact)
			f.Name, f.Description = strings.TrimSpace(f.Name), strings.TrimSpace(f.Description)
		},
		func(f *Factor, field string) bool {
			switch field {
			case "impact":
				f.Impact = ImpactNeutral
			case "description":
				f.Description = f.Name
			case "name":
				return false
			}
			return true
		})
	issues = append(issues, more...)

	out := MarketInsight{
		News:          news,
		Factors:       factors,
		GeneralAdvice: strings.TrimSpace(in.GeneralAdvice),
	}
	if out.GeneralAdvice == "" {
		issues = append(issues, FieldIssue{Field: "generalAdvice", Tag: "required"})
	}
	return out, issuesErr(issues)
}
