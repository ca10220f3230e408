package inspect

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/halcyonmkt/marketdata-commons/pkg/serialization/columnar"
)

// Schemas writes the columnar layout of each requested wire type to w. An
// empty tag list prints every registered type.
func (i *Inspector) Schemas(w io.Writer, tags []string) error {
	if len(tags) == 0 {
		tags = i.registry.Tags()
	}

	for idx, tag := range tags {
		desc, err := i.registry.Schema(tag)
		if err != nil {
			return err
		}
		if idx > 0 {
			fmt.Fprintln(w)
		}
		writeSchema(w, desc)
	}
	return nil
}

func writeSchema(w io.Writer, desc *columnar.Descriptor) {
	fmt.Fprintf(w, "%s (%d columns)\n", desc.WireType(), desc.NumFields())

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, f := range desc.Fields() {
		fmt.Fprintf(tw, "  %s\t%s\n", f.Name, f.Type)
	}
	tw.Flush()
}
