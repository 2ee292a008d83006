// Package filedrop stores processed upload images on disk. Everything is
// normalized to JPEG at fixed dimensions so templates never deal with
// arbitrary client files.
package filedrop

import (
	"fmt"
	"image"
	"image/jpeg"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

var uploadRoot = "static/uploads"

// SetUploadRoot overrides the on-disk root, used by tests.
func SetUploadRoot(dir string) { uploadRoot = dir }

const (
	userPhotoSize  = 500
	tourCoverW     = 2000
	tourCoverH     = 1333
	jpegQuality    = 90
	maxUploadBytes = 10 << 20
)

func decodeUpload(fh *multipart.FileHeader) (image.Image, error) {
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxUploadBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func saveJPEG(img image.Image, subdir, name string) (string, error) {
	dir := filepath.Join(uploadRoot, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return name, nil
}

// SaveUserPhoto crops the upload to a 500x500 square and stores it as
// users/user-<id>.jpg. Returns the stored filename.
func SaveUserPhoto(fh *multipart.FileHeader, userID string) (string, error) {
	img, err := decodeUpload(fh)
	if err != nil {
		return "", err
	}
	square := imaging.Fill(img, userPhotoSize, userPhotoSize, imaging.Center, imaging.Lanczos)
	return saveJPEG(square, "users", "user-"+userID+".jpg")
}

// SaveTourCover stores the 2000x1333 cover as tours/tour-<id>-cover.jpg.
func SaveTourCover(fh *multipart.FileHeader, tourID string) (string, error) {
	img, err := decodeUpload(fh)
	if err != nil {
		return "", err
	}
	cover := imaging.Fill(img, tourCoverW, tourCoverH, imaging.Center, imaging.Lanczos)
	return saveJPEG(cover, "tours", "tour-"+tourID+"-cover.jpg")
}

// SaveTourImages stores up to three gallery images at cover dimensions,
// named tour-<id>-<n>.jpg in upload order.
func SaveTourImages(fhs []*multipart.FileHeader, tourID string) ([]string, error) {
	if len(fhs) > 3 {
		fhs = fhs[:3]
	}
	names := make([]string, 0, len(fhs))
	for i, fh := range fhs {
		img, err := decodeUpload(fh)
		if err != nil {
			return nil, err
		}
		resized := imaging.Fill(img, tourCoverW, tourCoverH, imaging.Center, imaging.Lanczos)
		name, err := saveJPEG(resized, "tours", fmt.Sprintf("tour-%s-%d.jpg", tourID, i+1))
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
