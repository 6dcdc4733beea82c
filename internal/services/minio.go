package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"

	"github.com/minio/minio-go/v7"

	"aurastore_back_end/internal/database"
)

const productImagesBucket = "product-images"

// UploadProductImage pousse l'image dans MinIO et retourne l'URL
// publique utilisée comme image_ref côté catalogue et panier.
func UploadProductImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = database.MinIO.PutObject(ctx, productImagesBucket, file.Filename, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), productImagesBucket, file.Filename)
	return url, nil
}
