// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("snapshots/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	err = grid.SaveTo(ctx, store, "level-1.hgrd")
//
// # Features
//
//   - Uploads through the SDK transfer manager (multipart for large snapshots)
//   - Optional CRC32C integrity validation
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
