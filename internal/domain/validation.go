package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	gpvalidator "github.com/go-playground/validator/v10"

	"github.com/utafrali/wishlist/pkg/validator"
)

func init() {
	mustRegister("price", isNonNegativePrice, "must be a number greater than or equal to zero")
	mustRegister("positive_price", isPositivePrice, "must be a valid price greater than zero")
	mustRegister("optional_url", isOptionalURL, "must be a valid URL")
	mustRegister("priority", isPriority, "must be one of: High Medium Low")
}

func mustRegister(tag string, fn gpvalidator.Func, message string) {
	if err := validator.Register(tag, fn, message); err != nil {
		panic(err)
	}
}

// parseAmount parses a decimal price. Non-finite values are rejected.
func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// StripThousands removes the digit grouping commas people type into prices.
func StripThousands(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

func isNonNegativePrice(fl gpvalidator.FieldLevel) bool {
	v, ok := parseAmount(fl.Field().String())
	return ok && v >= 0
}

func isPositivePrice(fl gpvalidator.FieldLevel) bool {
	v, ok := parseAmount(StripThousands(fl.Field().String()))
	return ok && v > 0
}

// IsURL reports whether s parses as an absolute URL with a scheme and host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isOptionalURL(fl gpvalidator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || IsURL(s)
}

func isPriority(fl gpvalidator.FieldLevel) bool {
	return IsValidPriority(Priority(fl.Field().String()))
}
