package usecase

import (
	"skydrive/internal/domain/entity"
)

// MultipartThreshold is the declared size at which an upload switches
// from one presigned PUT to a chunked multipart transfer.
const MultipartThreshold = 100 * 1024 * 1024

// SelectStrategy maps a declared object size to a transfer strategy.
// Sizes strictly below the threshold go single-part; the threshold
// itself already selects multipart.
func SelectStrategy(size int64) entity.UploadStrategy {
	if size < MultipartThreshold {
		return entity.StrategySinglePart
	}
	return entity.StrategyMultiPart
}
