package chunked

import (
	"context"
	"fmt"

	"gocloud.dev/blob"
)

// Delete removes every {prefix}*.bin file from dir and returns how many
// were removed. Files that vanish while deleting are not an error.
//
// Returns an error if:
//   - dir does not exist (error wraps os.ErrNotExist)
//   - A chunk cannot be deleted (permission denied)
//   - The context is cancelled
func Delete(ctx context.Context, dir, prefix string) (int, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return 0, err
	}

	bucket, err := openExistingDir(dir)
	if err != nil {
		return 0, err
	}
	defer bucket.Close()

	return DeleteFromBucket(ctx, bucket, prefix)
}

// DeleteFromBucket is Delete for an existing bucket handle.
func DeleteFromBucket(ctx context.Context, bucket *blob.Bucket, prefix string) (int, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return 0, err
	}

	names, err := Existing(ctx, bucket, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, name := range names {
		if err := bucket.Delete(ctx, name); err != nil && !isNotExist(err) {
			return deleted, fmt.Errorf("chunked: delete chunk %s: %w", name, err)
		}
		deleted++
	}
	return deleted, nil
}
