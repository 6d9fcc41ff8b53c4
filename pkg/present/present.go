// Package present renders a generated set for humans instead of uploading it.
package present

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"go.flipt.io/flagseed/pkg/encoding"
	"go.flipt.io/flagseed/pkg/generate"
	"go.flipt.io/flagseed/pkg/model"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(v string) (Format, error) {
	switch f := Format(v); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %q (should be one of [text, json, yaml])", v)
	}
}

// Write renders set to w in the requested format.
func Write(w io.Writer, format Format, set generate.Set) error {
	switch format {
	case FormatText:
		return writeText(w, set)
	case FormatJSON, FormatYAML:
		enc, err := encoding.For[generate.Set](string(format))
		if err != nil {
			return err
		}

		encoder := enc.NewEncoder(w)
		if err := encoder.Encode(&set); err != nil {
			return err
		}

		if closer, ok := encoder.(io.Closer); ok {
			return closer.Close()
		}

		return nil
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
}

// Read decodes a set previously rendered by Write in format json or yaml.
// The input must hold exactly one set.
func Read(r io.Reader, format Format) (generate.Set, error) {
	if format != FormatJSON && format != FormatYAML {
		return generate.Set{}, fmt.Errorf("cannot read format: %q (should be one of [json, yaml])", format)
	}

	enc, err := encoding.For[generate.Set](string(format))
	if err != nil {
		return generate.Set{}, err
	}

	sets, err := encoding.DecodeAll(enc.NewDecoder(r))
	if err != nil {
		return generate.Set{}, fmt.Errorf("reading %s set: %w", format, err)
	}

	if len(sets) != 1 {
		return generate.Set{}, fmt.Errorf("expected a single %s set, found %d", format, len(sets))
	}

	return *sets[0], nil
}

func writeText(w io.Writer, set generate.Set) error {
	wr := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(wr, "FEATURE\tTYPE\tIMPRESSION DATA\tSTRATEGIES\t")
	for _, f := range set.Features {
		fmt.Fprintf(wr, "%s\t%s\t%t\t%d\t\n", f.Name, f.FeatureType, f.ImpressionData, len(set.Strategies[f.Name]))
	}

	if set.StrategyCount() == 0 {
		return wr.Flush()
	}

	fmt.Fprintln(wr)
	fmt.Fprintln(wr, "FEATURE\tTITLE\tNAME\tSORT ORDER\tPARAMETERS\tCONSTRAINTS\t")
	for _, f := range set.Features {
		for _, s := range set.Strategies[f.Name] {
			fmt.Fprintf(wr, "%s\t%s\t%s\t%d\t%s\t%s\t\n",
				f.Name,
				s.Title,
				s.Name,
				s.SortOrder,
				parameters(s.Parameters),
				constraints(s.Constraints),
			)
		}
	}

	return wr.Flush()
}

func parameters(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	return strings.Join(pairs, ",")
}

func constraints(cs []model.Constraint) string {
	if len(cs) == 0 {
		return "-"
	}

	out := make([]string, 0, len(cs))
	for _, c := range cs {
		var b strings.Builder
		if c.Inverted {
			b.WriteString("!")
		}

		fmt.Fprintf(&b, "%s %s ", c.ContextName, c.Operator)
		if len(c.Values) > 0 {
			fmt.Fprintf(&b, "[%s]", strings.Join(c.Values, " "))
		} else {
			b.WriteString(c.Value)
		}

		if c.CaseInsensitive {
			b.WriteString(" (i)")
		}

		out = append(out, b.String())
	}

	return strings.Join(out, "; ")
}
