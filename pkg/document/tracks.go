package document

import (
	"strconv"
	"strings"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/layout"
)

// ParseTemplate parses a grid template such as
// "100px 1fr repeat(auto-fill, minmax(40px, 1fr))".
func ParseTemplate(s string) ([]layout.TrackSizingFunction, error) {
	tokens, err := splitTracks(s)
	if err != nil {
		return nil, err
	}
	out := make([]layout.TrackSizingFunction, 0, len(tokens))
	for _, tok := range tokens {
		if name, args, ok := call(tok); ok && name == "repeat" {
			rep, err := parseRepeat(args)
			if err != nil {
				return nil, err
			}
			out = append(out, rep)
			continue
		}
		t, err := parseTrack(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, layout.Single(t))
	}
	return out, nil
}

// ParseTracks parses a list of tracks without repeat(), as used by
// grid-auto-rows and grid-auto-columns.
func ParseTracks(s string) ([]layout.NonRepeatedTrackSizingFunction, error) {
	tokens, err := splitTracks(s)
	if err != nil {
		return nil, err
	}
	out := make([]layout.NonRepeatedTrackSizingFunction, 0, len(tokens))
	for _, tok := range tokens {
		t, err := parseTrack(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseRepeat(args []string) (layout.TrackSizingFunction, error) {
	if len(args) != 2 {
		return layout.TrackSizingFunction{}, errors.New(errors.ErrCodeInvalidInput, "repeat() takes a count and a track list")
	}
	var rep layout.GridTrackRepetition
	switch strings.TrimSpace(args[0]) {
	case "auto-fill":
		rep.Kind = layout.RepeatAutoFill
	case "auto-fit":
		rep.Kind = layout.RepeatAutoFit
	default:
		n, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 16)
		if err != nil {
			return layout.TrackSizingFunction{}, errors.New(errors.ErrCodeInvalidInput, "invalid repeat count %q", args[0])
		}
		rep = layout.GridTrackRepetition{Kind: layout.RepeatCount, Count: uint16(n)}
	}
	tracks, err := ParseTracks(args[1])
	if err != nil {
		return layout.TrackSizingFunction{}, err
	}
	return layout.Repeat(rep, tracks...), nil
}

func parseTrack(tok string) (layout.NonRepeatedTrackSizingFunction, error) {
	if name, args, ok := call(tok); ok {
		switch name {
		case "minmax":
			if len(args) != 2 {
				return layout.NonRepeatedTrackSizingFunction{}, errors.New(errors.ErrCodeInvalidInput, "minmax() takes two arguments")
			}
			lo, err := parseMin(strings.TrimSpace(args[0]))
			if err != nil {
				return layout.NonRepeatedTrackSizingFunction{}, err
			}
			hi, err := parseMax(strings.TrimSpace(args[1]))
			if err != nil {
				return layout.NonRepeatedTrackSizingFunction{}, err
			}
			return layout.NonRepeatedTrackSizingFunction{Min: lo, Max: hi}, nil
		case "fit-content":
			if len(args) != 1 {
				return layout.NonRepeatedTrackSizingFunction{}, errors.New(errors.ErrCodeInvalidInput, "fit-content() takes one argument")
			}
			l, err := layout.ParseLengthPercentage(args[0])
			if err != nil {
				return layout.NonRepeatedTrackSizingFunction{}, err
			}
			return layout.NonRepeatedTrackSizingFunction{
				Min: layout.MinTrackSizingFunction{Kind: layout.MinTrackAuto},
				Max: layout.MaxTrackSizingFunction{Kind: layout.MaxTrackFitContent, Value: l},
			}, nil
		}
		return layout.NonRepeatedTrackSizingFunction{}, errors.New(errors.ErrCodeInvalidInput, "unknown track function %s()", name)
	}

	if fr, ok := strings.CutSuffix(tok, "fr"); ok {
		f, err := strconv.ParseFloat(fr, 32)
		if err != nil {
			return layout.NonRepeatedTrackSizingFunction{}, errors.New(errors.ErrCodeInvalidInput, "invalid fraction %q", tok)
		}
		return layout.FrTrack(float32(f)), nil
	}
	lo, err := parseMin(tok)
	if err != nil {
		return layout.NonRepeatedTrackSizingFunction{}, err
	}
	hi, err := parseMax(tok)
	if err != nil {
		return layout.NonRepeatedTrackSizingFunction{}, err
	}
	return layout.NonRepeatedTrackSizingFunction{Min: lo, Max: hi}, nil
}

func parseMin(s string) (layout.MinTrackSizingFunction, error) {
	switch s {
	case "auto":
		return layout.MinTrackSizingFunction{Kind: layout.MinTrackAuto}, nil
	case "min-content":
		return layout.MinTrackSizingFunction{Kind: layout.MinTrackMinContent}, nil
	case "max-content":
		return layout.MinTrackSizingFunction{Kind: layout.MinTrackMaxContent}, nil
	}
	l, err := layout.ParseLengthPercentage(s)
	if err != nil {
		return layout.MinTrackSizingFunction{}, err
	}
	return layout.MinTrackSizingFunction{Kind: layout.MinTrackFixed, Fixed: l}, nil
}

func parseMax(s string) (layout.MaxTrackSizingFunction, error) {
	switch s {
	case "auto":
		return layout.MaxTrackSizingFunction{Kind: layout.MaxTrackAuto}, nil
	case "min-content":
		return layout.MaxTrackSizingFunction{Kind: layout.MaxTrackMinContent}, nil
	case "max-content":
		return layout.MaxTrackSizingFunction{Kind: layout.MaxTrackMaxContent}, nil
	}
	if fr, ok := strings.CutSuffix(s, "fr"); ok {
		f, err := strconv.ParseFloat(fr, 32)
		if err != nil {
			return layout.MaxTrackSizingFunction{}, errors.New(errors.ErrCodeInvalidInput, "invalid fraction %q", s)
		}
		return layout.MaxTrackSizingFunction{Kind: layout.MaxTrackFraction, Fraction: float32(f)}, nil
	}
	l, err := layout.ParseLengthPercentage(s)
	if err != nil {
		return layout.MaxTrackSizingFunction{}, err
	}
	return layout.MaxTrackSizingFunction{Kind: layout.MaxTrackFixed, Value: l}, nil
}

// splitTracks splits on whitespace outside parentheses.
func splitTracks(s string) ([]string, error) {
	var out []string
	depth, start := 0, -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "unbalanced parentheses in %q", s)
			}
		case (r == ' ' || r == '\t') && depth == 0:
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if depth != 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unbalanced parentheses in %q", s)
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out, nil
}

// call splits "name(a, b)" into its name and top-level comma-separated
// arguments.
func call(tok string) (string, []string, bool) {
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return "", nil, false
	}
	inner := tok[open+1 : len(tok)-1]
	var args []string
	depth, last := 0, 0
	for i, r := range inner {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, inner[last:i])
				last = i + 1
			}
		}
	}
	args = append(args, inner[last:])
	return tok[:open], args, true
}
