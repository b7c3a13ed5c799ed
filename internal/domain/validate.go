package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen = 200
	maxURLLen   = 2048
	maxStyleLen = 64
)

func ValidateTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxTitleLen {
		return "", ErrInvalidTitle
	}

	return s, nil
}

// NormalizeDestinationURL trims s, prefixes a bare host with https:// and
// checks that the result is an absolute http(s) URL.
func NormalizeDestinationURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxURLLen {
		return "", ErrInvalidURL
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.ParseRequestURI(s)
	if err != nil {
		return "", ErrInvalidURL
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}

	host := u.Hostname()
	if host == "" || strings.ContainsAny(host, " \t") {
		return "", ErrInvalidURL
	}

	return s, nil
}

func ValidatePresentation(p Presentation) (Presentation, error) {
	out := Presentation{
		Icon:            strings.TrimSpace(p.Icon),
		BackgroundColor: strings.TrimSpace(p.BackgroundColor),
		TextColor:       strings.TrimSpace(p.TextColor),
	}

	for _, v := range []string{out.Icon, out.BackgroundColor, out.TextColor} {
		if utf8.RuneCountInString(v) > maxStyleLen {
			return Presentation{}, ErrInvalidStyle
		}
	}

	return out, nil
}

func NormalizeNewLink(in NewLink) (NewLink, error) {
	title, err := ValidateTitle(in.Title)
	if err != nil {
		return NewLink{}, err
	}

	dest, err := NormalizeDestinationURL(in.DestinationURL)
	if err != nil {
		return NewLink{}, err
	}

	style, err := ValidatePresentation(in.Presentation)
	if err != nil {
		return NewLink{}, err
	}

	return NewLink{Title: title, DestinationURL: dest, Presentation: style}, nil
}

// NormalizePatch validates every supplied field and returns the patch with
// normalized values.
func NormalizePatch(p LinkPatch) (LinkPatch, error) {
	if p.IsEmpty() {
		return LinkPatch{}, ErrEmptyPatch
	}

	if p.Title != nil {
		title, err := ValidateTitle(*p.Title)
		if err != nil {
			return LinkPatch{}, err
		}

		p.Title = &title
	}

	if p.DestinationURL != nil {
		dest, err := NormalizeDestinationURL(*p.DestinationURL)
		if err != nil {
			return LinkPatch{}, err
		}

		p.DestinationURL = &dest
	}

	for _, field := range []**string{&p.Icon, &p.BackgroundColor, &p.TextColor} {
		if *field == nil {
			continue
		}

		v := strings.TrimSpace(**field)
		if utf8.RuneCountInString(v) > maxStyleLen {
			return LinkPatch{}, ErrInvalidStyle
		}

		*field = &v
	}

	if p.Order != nil && *p.Order < 0 {
		return LinkPatch{}, ErrInvalidOrder
	}

	return p, nil
}
