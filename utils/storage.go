package utils

import (
	"bytes"
	"fmt"
	"os"

	storage "github.com/supabase-community/storage-go"
)

const qrBucket = "qr-codes"

// UploadQRCode stores a generated QR PNG in the Supabase storage bucket and
// returns its public URL. Uploads are upserts so regenerating a code for a
// location replaces the old image.
func UploadQRCode(slug string, png []byte) (string, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_KEY")
	if supabaseURL == "" || supabaseKey == "" {
		return "", fmt.Errorf("SUPABASE_URL / SUPABASE_KEY are not set")
	}

	storageClient := storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil)

	objectPath := fmt.Sprintf("%s-qr-code.png", slug)
	contentType := "image/png"
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := storageClient.UploadFile(qrBucket, objectPath, bytes.NewReader(png), options); err != nil {
		return "", err
	}

	publicURL := storageClient.GetPublicUrl(qrBucket, objectPath)
	return publicURL.SignedURL, nil
}
