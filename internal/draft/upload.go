package draft

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/model"
)

var (
	ErrTooManyImages    = errors.New(config.ErrTooManyImages)
	ErrImageTooLarge    = errors.New(config.ErrUploadTooLarge)
	ErrUnsupportedImage = errors.New(config.ErrUnsupportedImage)
)

const FormFieldImages = "images"

type Limits struct {
	MaxFiles     int
	MaxFileBytes int64
	MaxBodyBytes int64
	ContentTypes []string
}

func LimitsFromConfig(c config.UploadsConfig) Limits {
	return Limits{
		MaxFiles:     c.MaxFiles,
		MaxFileBytes: int64(c.MaxFileBytes),
		MaxBodyBytes: int64(c.MaxBodyBytes),
		ContentTypes: c.ContentTypes,
	}
}

// ReadImages loads the selected files into memory in selection order. Empty
// parts, which browsers send for an untouched file input, are skipped. The
// content type is sniffed from the data, not taken from the client.
func ReadImages(headers []*multipart.FileHeader, limits Limits) ([]model.ImageFile, error) {
	files := make([]model.ImageFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		if len(files) == limits.MaxFiles {
			return nil, fmt.Errorf("%w: at most %d", ErrTooManyImages, limits.MaxFiles)
		}
		if fh.Size > limits.MaxFileBytes {
			return nil, fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, fh.Filename, fh.Size)
		}

		img, err := readImage(fh, limits)
		if err != nil {
			return nil, err
		}
		files = append(files, img)
	}
	return files, nil
}

func readImage(fh *multipart.FileHeader, limits Limits) (model.ImageFile, error) {
	f, err := fh.Open()
	if err != nil {
		return model.ImageFile{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limits.MaxFileBytes+1))
	if err != nil {
		return model.ImageFile{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > limits.MaxFileBytes {
		return model.ImageFile{}, fmt.Errorf("%w: %s", ErrImageTooLarge, fh.Filename)
	}

	contentType := http.DetectContentType(data)
	if !slices.Contains(limits.ContentTypes, contentType) {
		return model.ImageFile{}, fmt.Errorf("%w: %s is %s", ErrUnsupportedImage, fh.Filename, contentType)
	}

	return model.ImageFile{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
