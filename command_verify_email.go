package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type EmailVerificationRequestMessage struct {
	Identifier string `json:"identifier" doc:"Username, email, or id of the account to verify"`
	OnResponse func(r *EmailVerificationRequestResponse)
}

func (e EmailVerificationRequestMessage) Type() string { return "user.verification_request" }

type EmailVerificationRequestResponse struct {
	Code  string `json:"code" doc:"Reversible verification code to embed in the email link"`
	Email string `json:"email" doc:"Address the verification email goes to"`
}

// EmailVerificationRequestHandler mints the reversible code for a
// verification email. The code encodes the username; nothing is stored, the
// code itself is the claim.
type EmailVerificationRequestHandler struct {
	repo  RepositoryManager
	codec *VerificationCodec
}

func NewEmailVerificationRequestHandler(repo RepositoryManager, codec *VerificationCodec) *EmailVerificationRequestHandler {
	return &EmailVerificationRequestHandler{repo: repo, codec: codec}
}

func (h *EmailVerificationRequestHandler) Execute(ctx context.Context, event EmailVerificationRequestMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during verification request")
	default:
		return h.execute(ctx, event)
	}
}

func (h *EmailVerificationRequestHandler) execute(ctx context.Context, event EmailVerificationRequestMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByIdentifier(ctx, event.Identifier)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for verification")
	}

	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := h.codec.Encode(user.Username)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode verification code")
	}

	if event.OnResponse != nil {
		event.OnResponse(&EmailVerificationRequestResponse{
			Code:  code,
			Email: user.Email,
		})
	}

	return nil
}

type EmailVerificationConfirmMessage struct {
	Code       string `json:"code" doc:"Reversible verification code from the email link"`
	OnResponse func(r *EmailVerificationConfirmResponse)
}

func (e EmailVerificationConfirmMessage) Type() string { return "user.verification_confirm" }

type EmailVerificationConfirmResponse struct {
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

// EmailVerificationConfirmHandler resolves a verification code back to its
// account and marks the email verified. A code for an already verified
// account is stale and rejected; every internal failure propagates to the
// caller, none are swallowed.
type EmailVerificationConfirmHandler struct {
	repo  RepositoryManager
	codec *VerificationCodec
}

func NewEmailVerificationConfirmHandler(repo RepositoryManager, codec *VerificationCodec) *EmailVerificationConfirmHandler {
	return &EmailVerificationConfirmHandler{repo: repo, codec: codec}
}

func (h *EmailVerificationConfirmHandler) Execute(ctx context.Context, event EmailVerificationConfirmMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during verification confirm")
	default:
		return h.execute(ctx, event)
	}
}

func (h *EmailVerificationConfirmHandler) execute(ctx context.Context, event EmailVerificationConfirmMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	username, err := h.codec.Decode(event.Code)
	if err != nil {
		return err
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := h.repo.Users().GetByIdentifierTx(ctx, tx, username)
		if err != nil {
			if isRecordNotFound(err) {
				return ErrIdentityNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for verification")
		}

		// The staleness rule: codes have no timestamp, a verified account
		// invalidates any still-circulating code for it.
		if user.EmailVerified {
			return ErrAlreadyVerified
		}

		if _, err := h.repo.Users().MarkEmailVerifiedTx(ctx, tx, user.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark email verified")
		}

		if event.OnResponse != nil {
			event.OnResponse(&EmailVerificationConfirmResponse{
				Username: user.Username,
				Verified: true,
			})
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "email verification transaction failed")
	}

	return nil
}
