package validation

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/h2non/filetype"
)

// ImageRef checks that ref points at an image by its extension. Uploads are
// handled elsewhere; only the stored reference is validated here.
func ImageRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if err := validateLink(ref); err != nil {
		return err
	}

	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	if ext == "" {
		return fmt.Errorf("image reference %q has no file extension", ref)
	}
	if !filetype.IsSupported(ext) || filetype.GetType(ext).MIME.Type != "image" {
		return fmt.Errorf("image reference %q is not an image", ref)
	}
	return nil
}

// ImageRefs requires at least one reference and validates each.
func ImageRefs(refs []string) error {
	if len(refs) == 0 {
		return fmt.Errorf("at least one image is required")
	}
	if len(refs) > MaxImagesCount {
		return fmt.Errorf("no more than %d images are allowed", MaxImagesCount)
	}
	for _, ref := range refs {
		if err := ImageRef(ref); err != nil {
			return err
		}
	}
	return nil
}
