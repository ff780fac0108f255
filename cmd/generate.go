/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"strings"

	"github.com/k1LoW/memegen"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	templateName string
	style        string
	out          string
	useImgflip   bool
	openResult   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [TOPIC...]",
	Short: "generate a meme about a topic",
	Long:  `generate a meme about a topic and save it as a JPEG file.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, stop, err := newLogger(true)
		if err != nil {
			return err
		}
		defer stop()
		a, err := newApp(ctx, cmd, logger, true)
		if err != nil {
			return err
		}
		meme, err := a.gen.Generate(ctx, memegen.Request{
			Topic:        strings.Join(args, " "),
			TemplateName: templateName,
			Style:        style,
			UseImgflip:   useImgflip,
			Filename:     out,
		})
		cmd.Println()
		if err != nil {
			return err
		}

		cmd.Printf("Template: %s\n", meme.Template.Name)
		cmd.Printf("Top:      %s\n", meme.Caption.TopText)
		if meme.Caption.BottomText != "" {
			cmd.Printf("Bottom:   %s\n", meme.Caption.BottomText)
		}
		if meme.Remote {
			cmd.Println(meme.URL)
			if openResult {
				return browser.OpenURL(meme.URL)
			}
			return nil
		}
		cmd.Println(meme.Path)
		if openResult {
			return browser.OpenFile(meme.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&templateName, "template", "t", "", "template name (default: chosen from the topic)")
	generateCmd.Flags().StringVarP(&style, "style", "s", "funny", "caption style (funny, sarcastic, wholesome, dark)")
	generateCmd.Flags().StringVarP(&out, "out", "o", "", "output file name in the output directory")
	generateCmd.Flags().BoolVarP(&useImgflip, "imgflip", "", false, "render with the Imgflip API when credentials are set")
	generateCmd.Flags().BoolVarP(&openResult, "open", "", false, "open the generated meme")
}
