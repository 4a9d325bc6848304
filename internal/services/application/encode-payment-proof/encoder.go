// internal/services/application/encode-payment-proof/encoder.go
package encodepaymentproof

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
	validateapplicationdata "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/validate-application-data"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const TaskType = "encode-payment-proof"

const MsgTooLargeAfterRead = "Image is too large even after validation. Please use a smaller image."

// ObjectStore is the receipt storage collaborator.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

type Encoder struct {
	config    *Config
	store     ObjectStore
	validator *validateapplicationdata.Validator
	logger    logger.Logger
	now       func() time.Time
}

func NewEncoder(config *Config, store ObjectStore, log logger.Logger) *Encoder {
	if config == nil {
		config = LoadConfig()
	}
	vcfg := validateapplicationdata.LoadConfig()
	vcfg.MaxFileSize = config.MaxFileSize

	return &Encoder{
		config:    config,
		store:     store,
		validator: validateapplicationdata.NewValidator(vcfg),
		logger:    log.WithFields(map[string]interface{}{"taskType": TaskType}),
		now:       time.Now,
	}
}

// Encode uploads proof and returns its retrieval URL. A nil proof yields "".
// The whole operation is bounded by the configured timeout.
func (e *Encoder) Encode(ctx context.Context, proof *models.PaymentProof) (string, error) {
	if proof == nil {
		return "", nil
	}

	if msg, ok := e.validator.ValidatePaymentProof(proof); !ok {
		return "", apperrors.NewFileConstraintError(msg)
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	data, err := io.ReadAll(io.LimitReader(proof.Reader(), e.config.MaxFileSize+1))
	if err != nil {
		return "", apperrors.NewFileConstraintError(validateapplicationdata.MsgFileMissing)
	}
	if int64(len(data)) > e.config.MaxFileSize {
		return "", apperrors.NewFileConstraintError(MsgTooLargeAfterRead)
	}
	if len(data) == 0 {
		return "", apperrors.NewFileConstraintError(validateapplicationdata.MsgFileMissing)
	}

	detected := mimetype.Detect(data)
	sniffed := &models.PaymentProof{Size: int64(len(data)), ContentType: detected.String()}
	if msg, ok := e.validator.ValidatePaymentProof(sniffed); !ok {
		e.logger.Warn("receipt content does not match an accepted image type", map[string]interface{}{
			"declared": proof.ContentType,
			"detected": detected.String(),
		})
		return "", apperrors.NewFileConstraintError(msg)
	}

	key := e.objectKey(proof.Filename, detected.Extension())

	done := make(chan error, 1)
	go func() {
		done <- e.store.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), detected.String())
	}()

	select {
	case err := <-done:
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", apperrors.NewFileProcessingTimeoutError(err)
			}
			e.logger.Error("receipt upload failed", map[string]interface{}{
				"key":   key,
				"error": err,
			})
			return "", apperrors.NewObjectStorageFailedError(err)
		}
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			e.logger.Warn("receipt upload timed out", map[string]interface{}{
				"key":     key,
				"timeout": e.config.Timeout.String(),
			})
			return "", apperrors.NewFileProcessingTimeoutError(ctx.Err())
		}
		return "", ctx.Err()
	}

	url := e.store.PublicURL(key)
	e.logger.Info("receipt uploaded", map[string]interface{}{
		"key":  key,
		"size": len(data),
	})
	return url, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SafeFilename reduces name to a conservative character set.
func SafeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" {
		base = ""
	}
	base = strings.Trim(unsafeChars.ReplaceAllString(base, "-"), "-.")
	if len(base) > 80 {
		base = base[len(base)-80:]
	}
	return base
}

func (e *Encoder) objectKey(filename, ext string) string {
	name := SafeFilename(filename)
	if name == "" {
		name = "receipt" + ext
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%d-%s-%s", e.config.KeyPrefix, e.now().UnixMilli(), suffix, name)
}
