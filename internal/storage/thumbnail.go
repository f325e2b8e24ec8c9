package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	"github.com/yukikurage/task-manager/internal/constants"
)

// Thumbnail decodes a jpeg, png or gif image, fits it into the avatar square
// and re-encodes it as jpeg.
func Thumbnail(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, constants.MaxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > constants.MaxAvatarBytes {
		return nil, ErrImageTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	size := uint(constants.AvatarThumbnailSize)
	thumb := resize.Thumbnail(size, size, img, resize.Lanczos3)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
