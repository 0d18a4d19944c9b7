package binder

import (
	"fmt"
	"strings"

	"flipkart-scraper-api-go/internal/model"
)

// Lang selects the greeting language.
type Lang int

const (
	LangNone Lang = iota
	LangEnglish
	LangRussian
)

// GreetingOptions are the bound options of GET /hello.
type GreetingOptions struct {
	Lang  Lang
	Emoji bool
	Name  string
}

var langValues = map[string]Lang{
	"en": LangEnglish,
	"ru": LangRussian,
	"ру": LangRussian,
}

// Greeting binds ?lang=&emoji&name= for the demo greeting. A bare "emoji"
// key counts as true.
func Greeting(rawQuery string) (GreetingOptions, error) {
	params, err := ParseQuery(rawQuery)
	if err != nil {
		return GreetingOptions{}, err
	}

	var opts GreetingOptions
	if v, ok := params["lang"]; ok {
		lang, known := langValues[v]
		if !known {
			return GreetingOptions{}, &model.BindingError{
				Message: MsgInvalidGreeting,
				Detail:  fmt.Sprintf("unknown lang %q", v),
			}
		}
		opts.Lang = lang
	}
	if v, ok := params["emoji"]; ok {
		b, err := parseFlag(v)
		if err != nil {
			return GreetingOptions{}, model.NewBindingError(MsgInvalidGreeting, err)
		}
		opts.Emoji = b
	}
	opts.Name = params["name"]
	return opts, nil
}

func parseFlag(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "", "true", "on", "yes", "1":
		return true, nil
	case "false", "off", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("emoji: invalid boolean %q", v)
}
