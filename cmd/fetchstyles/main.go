// Command fetchstyles downloads the real style reference artwork from the
// Art Institute of Chicago into the style directory. The API synthesizes
// placeholder references when these are absent, so running this is optional
// but makes the results much nicer to look at.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/storage"
)

var styleURLs = map[string]string{
	"vangogh":   "https://www.artic.edu/iiif/2/25c31d8d-21a4-9ea1-1d73-6a2eca4dda7e/full/843,/0/default.jpg",
	"picasso":   "https://www.artic.edu/iiif/2/831a05de-d3f6-f4fa-a460-23008dd58dda/full/843,/0/default.jpg",
	"monet":     "https://www.artic.edu/iiif/2/3c27b499-af56-f0d5-93b5-a7f2f1ad5813/full/843,/0/default.jpg",
	"kandinsky": "https://www.artic.edu/iiif/2/40646d6f-3b9b-527c-a4be-ad7ecf823f67/full/843,/0/default.jpg",
}

func main() {
	var (
		dirFlag string
		force   bool
		timeout time.Duration
	)
	flag.StringVar(&dirFlag, "dir", "", "style directory (defaults to STYLE_DIR from the environment)")
	flag.BoolVar(&force, "force", false, "re-download references that already exist")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "per-download timeout")
	flag.Parse()

	_ = godotenv.Load()

	dir := dirFlag
	if dir == "" {
		cfg, err := infra.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		dir = cfg.StyleDir
	}

	store, err := storage.NewFileStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init style dir: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	failed := 0
	for name, url := range styleURLs {
		key := name + ".jpg"
		if !force && store.Exists(key) {
			fmt.Printf("%-10s already present\n", name)
			continue
		}
		if err := fetch(context.Background(), client, store, key, url); err != nil {
			fmt.Fprintf(os.Stderr, "%-10s failed: %v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("%-10s downloaded\n", name)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func fetch(ctx context.Context, client *http.Client, store *storage.FileStore, key, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "style-transfer-fetchstyles/1.0")
	req.Header.Set("Accept", "image/jpeg,image/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// Refuse to store anything the engine could not decode later.
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("response is not a decodable image: %w", err)
	}

	if _, err := store.Write(ctx, key, data); err != nil {
		return err
	}
	return nil
}
