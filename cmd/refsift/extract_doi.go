package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refsift/refsift/internal/pdfmeta"
)

func init() {
	rootCmd.AddCommand(extractDOICmd)
}

var extractDOICmd = &cobra.Command{
	Use:   "extract-doi <pdf>...",
	Short: "Extract DOIs from PDF files",
	Long: `Extract the DOI from each PDF by scanning its first pages.

Useful when assembling a screening sheet from a folder of downloaded
papers. Files without a detectable DOI report an empty value.

Examples:
  refsift extract-doi paper.pdf
  refsift extract-doi downloads/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtractDOI,
}

// ExtractedDOI pairs a PDF path with the DOI found in it.
type ExtractedDOI struct {
	File  string `json:"file"`
	DOI   string `json:"doi,omitempty"`
	Error string `json:"error,omitempty"`
}

func runExtractDOI(cmd *cobra.Command, args []string) error {
	results := make([]ExtractedDOI, 0, len(args))
	for _, path := range args {
		doi, err := pdfmeta.ExtractDOI(path)
		r := ExtractedDOI{File: path, DOI: doi}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}

	if humanOutput {
		for _, r := range results {
			switch {
			case r.Error != "":
				fmt.Printf("%s\terror: %s\n", r.File, r.Error)
			case r.DOI == "":
				fmt.Printf("%s\t(no DOI found)\n", r.File)
			default:
				fmt.Printf("%s\t%s\n", r.File, r.DOI)
			}
		}
	} else {
		outputJSON(results)
	}
	return nil
}
