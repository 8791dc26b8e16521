// Package blob stores generated images in a MinIO (S3-compatible) bucket.
//
// Images are uploaded under caller-chosen keys and referenced by stable
// URLs; these references are what the semantic cache and API responses
// carry, never the raw bytes. The bucket is created on startup if missing.
//
// Configuration comes from MINIO_ENDPOINT, MINIO_ACCESS_KEY,
// MINIO_SECRET_KEY, MINIO_USE_SSL, MINIO_BUCKET, MINIO_REGION and
// MINIO_PUBLIC_BASE_URL.
package blob
