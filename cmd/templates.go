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
	"fmt"

	"github.com/k1LoW/memegen/catalog"
	"github.com/spf13/cobra"
)

var (
	search string
	limit  int
	info   string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "list meme templates",
	Long:  `list meme templates, most popular first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, stop, err := newLogger(false)
		if err != nil {
			return err
		}
		defer stop()
		a, err := newApp(ctx, cmd, logger, true)
		if err != nil {
			return err
		}
		cat := a.gen.Catalog()
		if info != "" {
			t := cat.ByName(info)
			if t == nil {
				return fmt.Errorf("template %q not found", info)
			}
			cmd.Println(catalog.Info(t))
			return nil
		}
		var templates []*catalog.Template
		if search != "" {
			templates = cat.Search(search, limit)
		} else {
			templates = cat.Popular(limit)
		}
		for _, t := range templates {
			cmd.Printf("%s\t%s\t%d\n", t.ID, t.Name, t.BoxCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.Flags().StringVarP(&search, "search", "", "", "search templates by name")
	templatesCmd.Flags().IntVarP(&limit, "limit", "l", 50, "maximum number of templates")
	templatesCmd.Flags().StringVarP(&info, "info", "", "", "show details of a template")
}
