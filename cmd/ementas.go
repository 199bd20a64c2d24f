package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rotisserie/eris"
)

var ementasCmd = &cobra.Command{
	Use:   "ementas [id]",
	Short: "List curriculum records or show one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return eris.Errorf("invalid ementa id %q", args[0])
			}
			e, err := st.GetEmenta(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeResult(e, "")
		}

		ementas, err := st.ListEmentas(cmd.Context())
		if err != nil {
			return err
		}
		if len(ementas) == 0 {
			fmt.Println("no ementas found")
			return nil
		}
		return writeResult(ementas, "")
	},
}

func init() {
	rootCmd.AddCommand(ementasCmd)
}
