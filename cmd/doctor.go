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
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/k1LoW/memegen"
	"github.com/k1LoW/memegen/catalog"
	"github.com/k1LoW/memegen/config"
	"github.com/spf13/cobra"
)

// doctorFontSize is the size used to probe font resolution.
const doctorFontSize = 48

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "check environment for memegen",
	Long:  `check environment for memegen.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Color setup
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		bold := color.New(color.Bold)

		allOK := true

		// 1. Check configuration file
		cmd.Print("🔧 Checking configuration ... ")

		cfg, err := config.Load(profile)
		if err != nil {
			red.Println("✗ CONFIG ERROR")
			cmd.Printf("   Error loading config: %v\n", err)
			cmd.Println("\nPlease fix the issues above to use memegen properly.")
			return nil
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			yellow.Println("⚠️ WARNING")
			for _, e := range errs {
				cmd.Printf("   %v\n", e)
			}
		} else {
			green.Println("✓ OK")
		}

		// 2. Check captioning
		cmd.Print("🤖 Checking captioning ... ")

		if cfg.LLMProvider == config.ProviderOpenAI && cfg.OpenAIAPIKey != "" {
			green.Println("✓ OK")
			cmd.Printf("   Using %s (%s)\n", cfg.LLMModel, cfg.OpenAIBaseURL)
		} else {
			yellow.Println("⚠️ DEMO MODE")
			cmd.Println("   Set OPENAI_API_KEY to generate captions with an LLM")
		}
		if len(cfg.Captions) > 0 {
			cmd.Printf("   %d custom caption rules\n", len(cfg.Captions))
		}

		// 3. Check fonts
		cmd.Print("🔤 Checking fonts ... ")

		f := memegen.NewFontResolver(cfg.FontPaths, nil).Resolve(doctorFontSize)
		if strings.HasPrefix(f.Source, "builtin:") {
			yellow.Println("⚠️ BUILTIN")
			cmd.Printf("   None of the font paths could be loaded, using %s\n", f.Source)
		} else {
			green.Println("✓ OK")
			cmd.Printf("   Font: %s\n", f.Source)
		}

		// 4. Check templates
		cmd.Print("🖼️  Checking templates ... ")

		client := memegen.NewHTTPClient(slog.New(slog.DiscardHandler), cfg.Timeout, 0)
		imgflip := catalog.NewImgflip(client, config.ImgflipGetMemesURL, config.ImgflipCaptionURL, cfg.ImgflipUsername, cfg.ImgflipPassword)
		cat, err := catalog.Load(ctx, cfg.DatasetPath, imgflip, nil)
		if err != nil {
			red.Println("✗ NOT AVAILABLE")
			cmd.Printf("   Error loading templates: %v\n", err)
			allOK = false
		} else {
			green.Println("✓ OK")
			cmd.Printf("   %d templates loaded\n", cat.Len())
			if _, err := os.Stat(cfg.DatasetPath); err != nil {
				cmd.Printf("   Dataset %s not found, using the Imgflip API\n", cfg.DatasetPath)
			}
		}

		// 5. Check Imgflip rendering (optional)
		cmd.Print("🌐 Checking Imgflip rendering ... ")

		if cfg.ImgflipEnabled() {
			green.Println("✓ OK")
		} else {
			yellow.Println("⚠️ NOT CONFIGURED")
			cmd.Println("   Set IMGFLIP_USERNAME and IMGFLIP_PASSWORD to render with Imgflip (optional)")
		}

		// 6. Check output directory
		cmd.Print("📁 Checking output directory ... ")

		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			red.Println("✗ NOT WRITABLE")
			cmd.Printf("   Error: %v\n", err)
			allOK = false
		} else {
			green.Println("✓ OK")
			cmd.Printf("   Output directory: %s\n", cfg.OutputDir)
		}

		// Final message
		cmd.Println()
		if allOK {
			bold.Printf("🎉 ")
			green.Print("All checks passed! You are ready to use memegen")
			bold.Println(".")
			cmd.Println()
			cmd.Println("Try generating a meme:")
			yellow.Println("  memegen generate working from home")
		} else {
			red.Println("⚠️  Setup is incomplete.")
			cmd.Println("\nPlease fix the issues above to use memegen properly.")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
