package cmd

import (
	"context"
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/kindle-sendto/internal/classifier"
	"github.com/ryan-gang/kindle-sendto/internal/cmdutil"
	"github.com/ryan-gang/kindle-sendto/internal/epubgen"
	"github.com/ryan-gang/kindle-sendto/internal/sendto"
	"github.com/ryan-gang/kindle-sendto/internal/util"
)

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().IntP("mail-timeout", "m", 0, "Mail timeout in seconds, increase it if sending lot of files")
	sendCmd.Flags().StringP("to", "t", "", "Device email, defaults to the configured receiver")
}

var (
	helpLong = `Sends the files to ereader. If a link or a file containing links is given
it will first download the webpage, convert into ebook and then send.
Each argument becomes a separate attachment of a single mail.
kindle-send auto detects if argument is a link, collection of links or an ebook.`

	helpExample = dedent.Dedent(`
		# Send a single webpage
		kindle-send send "http://paulgraham.com/alien.html"

		# Send multiple webpages
		kindle-send send "http://paulgraham.com/alien.html" "http://paulgraham.com/hwh.html"

		# Send webpage, collection of webpages and an ebook to another device
		kindle-send send --to friend@kindle.com "http://paulgraham.com/alien.html" links.txt "Some Book.epub"`,
	)
)

var sendCmd = &cobra.Command{
	Use:     "send [LINK1] [LINK2] [FILE1] [FILE2]",
	Short:   "Send the files, links, documents to ereader",
	Long:    helpLong,
	Example: helpExample,
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := cmdutil.LoadConfigOrExit(cmd)
		if c == nil {
			os.Exit(1)
		}
		if timeout, _ := cmd.Flags().GetInt("mail-timeout"); timeout > 0 {
			c.MailTimeout = timeout
		}
		// the command line is the owner's own channel
		c.AllowSendTo = true

		svc, err := cmdutil.NewServices(c)
		if err != nil {
			util.LogError(util.SendError, "creating logger", err)
			os.Exit(1)
		}
		defer svc.Close()

		destination, _ := cmd.Flags().GetString("to")
		if destination == "" {
			destination = svc.Config.GetReceiver()
		}

		paths := cmdutil.Resolve(classifier.Classify(args), epubgen.New(svc.Log), svc.Config.GetStorePath())

		req := sendto.Request{Destination: destination}
		for _, p := range paths {
			entry, err := sendto.FileEntryFromPath(p)
			if err != nil {
				util.LogError(util.FileError, "reading "+p, err)
				continue
			}
			req.Files = append(req.Files, entry)
		}

		util.CyanBold.Printf("Sending %d files to %s\n", len(req.Files), destination)
		receipt, err := svc.Dispatcher.Dispatch(context.Background(), req)
		if err != nil {
			util.LogErrorf(util.SendError, "sending to device", "%v (%s)", err, sendto.Reason(err))
			os.Exit(1)
		}
		if receipt.Attachments == 0 {
			util.Magenta.Println("Every file was empty, nothing was mailed")
			return
		}
		util.GreenBold.Printf("Mailed %d files (%d bytes) to %s\n", receipt.Attachments, receipt.Bytes, destination)
	},
}
