package cmd

import (
	"os"
	"path/filepath"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/kindle-sendto/internal/classifier"
	"github.com/ryan-gang/kindle-sendto/internal/cmdutil"
	"github.com/ryan-gang/kindle-sendto/internal/epubgen"
	"github.com/ryan-gang/kindle-sendto/internal/logger"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

var (
	helpDownload = `Downloads the webpage or collection of webpages from given arguments
that can be a standalone link or a text file containing multiple links.
Supports multiple arguments. Each argument is downloaded as a separate file.`

	exampleDownload = dedent.Dedent(`
		# Download a single webpage
		kindle-send download "http://paulgraham.com/alien.html"

		# Download multiple webpages
		kindle-send download "http://paulgraham.com/alien.html" "http://paulgraham.com/hwh.html"

		# Download webpage and collection of webpages
		kindle-send download "http://paulgraham.com/alien.html" links.txt`,
	)
)

var downloadCmd = &cobra.Command{
	Use:     "download [LINK1] [LINK2] [FILE1] [FILE2]",
	Short:   "Download the webpage as ebook and save locally",
	Long:    helpDownload,
	Example: exampleDownload,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := cmdutil.LoadConfigOrExit(cmd)
		if c == nil {
			os.Exit(1)
		}

		var requests []classifier.Request
		for _, req := range classifier.Classify(args) {
			if req.Kind == classifier.File {
				util.Magenta.Println("Already an e-book, skipping ", req.Path)
				continue
			}
			requests = append(requests, req)
		}

		maker := epubgen.New(logger.New(os.Stderr, c.LogLevel))
		paths := cmdutil.Resolve(requests, maker, c.StorePath)

		util.CyanBold.Printf("Downloaded %d files :\n", len(paths))
		for idx, p := range paths {
			util.Cyan.Printf("%d. %s\n", idx+1, filepath.Base(p))
		}
	},
}
