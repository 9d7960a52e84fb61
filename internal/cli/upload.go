package cli

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/radif/gallery/internal/gallery"
)

func uploadCmd(e *env) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file under a timestamped name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := localFile(args[0])
			if err != nil {
				return err
			}
			ctl, err := e.controller(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := ctl.SelectFile(gallery.Category(category), f); err != nil {
				return err
			}

			res := ctl.Upload(cmd.Context())
			if res.Partial {
				cmd.PrintErrf("uploaded, but the list could not be refreshed: %v\n", res.Err)
			} else if res.Err != nil {
				return res.Err
			}
			obj, err := ctl.Lookup(res.Key)
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), res.Key)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", obj.Name, obj.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "Upload slot: image, video or audio")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// localFile describes a file on disk. The content type comes from the
// extension, or from the first bytes when the extension is unknown.
func localFile(path string) (*gallery.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType, err = sniff(path)
		if err != nil {
			return nil, err
		}
	}
	return &gallery.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
