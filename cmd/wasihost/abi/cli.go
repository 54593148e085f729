package abi

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/pgavlin/wasihost/vm"
	"github.com/pgavlin/wasihost/wasi"
)

type function struct {
	Index   int    `csv:"index"`
	Name    string `csv:"name"`
	Params  string `csv:"params"`
	Results string `csv:"results"`
}

func types(ts []vm.ValueType) string {
	strs := make([]string, len(ts))
	for i, t := range ts {
		strs[i] = t.String()
	}
	return strings.Join(strs, " ")
}

func dump(w *csv.Writer) error {
	memory := vm.NewMemory(1, 1)
	mod, err := wasi.Instantiate("wasi_snapshot_preview1", &memory, nil)
	if err != nil {
		return err
	}

	enc := csvutil.NewEncoder(w)
	for i, name := range wasi.FunctionNames() {
		fn, err := mod.GetFunction(name)
		if err != nil {
			return err
		}

		sig := fn.Signature()
		err = enc.Encode(function{
			Index:   i,
			Name:    name,
			Params:  types(sig.Params),
			Results: types(sig.Results),
		})
		if err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "abi",
		Short: "Dump the snapshot_preview1 function table",
		Long:  "Dump the name, index, and wire signature of each snapshot_preview1 function as CSV.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dump(csv.NewWriter(os.Stdout))
		},
	}
}
