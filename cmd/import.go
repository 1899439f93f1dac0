package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sdr-ops/internal/importer"
)

var importFTPURL string

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import leads from a CSV or XLSX file, or from an FTP drop",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if (len(args) == 0) == (importFTPURL == "") {
			return eris.New("provide either a file path or --url, not both")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		imp := importer.New(st)

		var result *importer.Result
		switch {
		case importFTPURL != "":
			result, err = imp.ImportFTP(ctx, importFTPURL)
		case strings.HasSuffix(strings.ToLower(args[0]), ".xlsx"):
			var data []byte
			data, err = os.ReadFile(args[0])
			if err != nil {
				return eris.Wrapf(err, "read %s", args[0])
			}
			result, err = imp.ImportXLSX(ctx, data)
		default:
			var f *os.File
			f, err = os.Open(args[0])
			if err != nil {
				return eris.Wrapf(err, "open %s", args[0])
			}
			defer f.Close()
			result, err = imp.ImportCSV(ctx, f)
		}
		if err != nil {
			return err
		}

		fmt.Printf("imported %d of %d row(s) from %s\n", result.Created, result.Total, result.Source)
		if result.TotalErrors > 0 {
			fmt.Printf("%d row(s) rejected:\n", result.TotalErrors)
			for _, re := range result.Errors {
				fmt.Printf("  row %d: %s\n", re.Row, re.Message)
			}
			if result.TotalErrors > len(result.Errors) {
				fmt.Printf("  ... and %d more\n", result.TotalErrors-len(result.Errors))
			}
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFTPURL, "url", "", "FTP URL to fetch (ftp://host/path/leads.csv)")
	rootCmd.AddCommand(importCmd)
}
