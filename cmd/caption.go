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
	"github.com/k1LoW/memegen/caption"
	"github.com/spf13/cobra"
)

var count int

var captionCmd = &cobra.Command{
	Use:   "caption [TOPIC...]",
	Short: "generate captions without creating a meme",
	Long:  `generate captions without creating a meme. With --count, styles rotate through funny, sarcastic and wholesome.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, stop, err := newLogger(false)
		if err != nil {
			return err
		}
		defer stop()
		a, err := newApp(ctx, cmd, logger, false)
		if err != nil {
			return err
		}
		topic := strings.Join(args, " ")
		var captions []caption.Caption
		if count > 1 {
			if strings.TrimSpace(topic) == "" {
				return memegen.ErrTopicRequired
			}
			captions = caption.Variations(ctx, a.captioner, topic, templateName, count)
		} else {
			c, err := a.gen.Caption(ctx, memegen.Request{
				Topic:        topic,
				TemplateName: templateName,
				Style:        style,
			})
			if err != nil {
				return err
			}
			captions = append(captions, c)
		}
		for i, c := range captions {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(c.TopText)
			if c.BottomText != "" {
				cmd.Println(c.BottomText)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(captionCmd)
	captionCmd.Flags().StringVarP(&templateName, "template", "t", "", "template name given to the captioner as context")
	captionCmd.Flags().StringVarP(&style, "style", "s", "funny", "caption style (funny, sarcastic, wholesome, dark)")
	captionCmd.Flags().IntVarP(&count, "count", "c", 1, "number of caption variations")
}
