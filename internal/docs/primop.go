package docs

import (
	"fmt"
	"strings"
)

// PrimopDescription renders the Markdown preamble shown above a builtin's
// documentation. The block always ends in a blank line so it can be
// concatenated directly in front of the body.
func PrimopDescription(meta *PrimopMeta) string {
	if meta == nil {
		return ""
	}

	var b strings.Builder
	if meta.Name != "" {
		b.WriteString(fmt.Sprintf("Primop `builtins.%s`\n\n", meta.Name))
	} else {
		b.WriteString("Primop\n\n")
	}

	arity := meta.Arity
	if arity == 0 {
		arity = len(meta.Args)
	}
	switch arity {
	case 0:
		b.WriteString("Takes no arguments\n\n")
	case 1:
		b.WriteString("Takes **1** argument\n\n")
	default:
		b.WriteString(fmt.Sprintf("Takes **%d** arguments\n\n", arity))
	}

	if len(meta.Args) > 0 {
		for _, arg := range meta.Args {
			b.WriteString(fmt.Sprintf("- `%s`\n", arg))
		}
		b.WriteString("\n")
	}

	if meta.Experimental {
		b.WriteString("> This primop is experimental. It is only available with the corresponding experimental feature enabled and may change without notice.\n\n")
	}

	return b.String()
}

// AssembleContent returns the Markdown handed to the renderer: the primop
// description followed immediately by the body for builtins, the raw body
// otherwise.
func AssembleContent(d *Doc) string {
	body := d.Body()
	if d != nil && d.Meta.IsPrimop && d.Meta.PrimopMeta != nil {
		return PrimopDescription(d.Meta.PrimopMeta) + body
	}
	return body
}
