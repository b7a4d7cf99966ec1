package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/roy777rajat/my-photo-app/internal/domain"
)

// classifyAWSError converts an SDK error into one of the domain error kinds.
// Unrecognized errors pass through unchanged so callers can still wrap them.
func classifyAWSError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UnrecognizedClientException", "InvalidClientTokenId",
			"InvalidAccessKeyId", "SignatureDoesNotMatch",
			"AuthFailure", "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("%w: %s", domain.ErrAuthFailure, apiErr.ErrorMessage())
		case "ResourceNotFoundException":
			return fmt.Errorf("%w: %s", domain.ErrTableNotFound, apiErr.ErrorMessage())
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", domain.ErrBlobNotFound, apiErr.ErrorMessage())
		}
		return err
	}

	// Credential resolution failures never reach the service, so they carry
	// no API error code.
	if strings.Contains(err.Error(), "credentials") {
		return fmt.Errorf("%w: %v", domain.ErrCredentialsMissing, err)
	}

	return err
}
