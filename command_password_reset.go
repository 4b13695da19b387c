package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type PasswordResetInitializeMessage struct {
	Identifier string `json:"identifier" doc:"Username or email requesting the reset"`
	OnResponse func(r *PasswordResetInitializeResponse)
}

func (e PasswordResetInitializeMessage) Type() string { return "user.password_reset_initialize" }

type PasswordResetInitializeResponse struct {
	Code  string `json:"code" doc:"Reversible code to embed in the reset link"`
	Email string `json:"email" doc:"Address the reset email goes to"`
}

// PasswordResetInitializeHandler mints the reversible code handed out in a
// reset link. Like verification codes, nothing is persisted; possession of a
// code that decodes under our key is the proof.
type PasswordResetInitializeHandler struct {
	repo  RepositoryManager
	codec *VerificationCodec
}

func NewPasswordResetInitializeHandler(repo RepositoryManager, codec *VerificationCodec) *PasswordResetInitializeHandler {
	return &PasswordResetInitializeHandler{repo: repo, codec: codec}
}

func (h *PasswordResetInitializeHandler) Execute(ctx context.Context, event PasswordResetInitializeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password reset initialize")
	default:
		return h.execute(ctx, event)
	}
}

func (h *PasswordResetInitializeHandler) execute(ctx context.Context, event PasswordResetInitializeMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByIdentifier(ctx, event.Identifier)
	if err != nil {
		if isRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	code, err := h.codec.Encode(user.Username)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode reset code")
	}

	if event.OnResponse != nil {
		event.OnResponse(&PasswordResetInitializeResponse{
			Code:  code,
			Email: user.Email,
		})
	}

	return nil
}

type PasswordResetFinalizeMessage struct {
	Code     string `json:"code" doc:"Reversible code from the reset link"`
	Password string `json:"password" doc:"New password"`
}

func (e PasswordResetFinalizeMessage) Type() string { return "user.password_reset_finalize" }

// PasswordResetFinalizeHandler resolves the reset code and replaces the
// credential wholesale. The raw update also flips the email verified flag,
// completing the link proves control of the mailbox.
type PasswordResetFinalizeHandler struct {
	repo  RepositoryManager
	codec *VerificationCodec
}

func NewPasswordResetFinalizeHandler(repo RepositoryManager, codec *VerificationCodec) *PasswordResetFinalizeHandler {
	return &PasswordResetFinalizeHandler{repo: repo, codec: codec}
}

func (h *PasswordResetFinalizeHandler) Execute(ctx context.Context, event PasswordResetFinalizeMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password reset finalize")
	default:
		return h.execute(ctx, event)
	}
}

func (h *PasswordResetFinalizeHandler) execute(ctx context.Context, event PasswordResetFinalizeMessage) error {
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
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		if err := h.repo.Users().ResetPasswordTx(ctx, tx, user.ID, hash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to reset password")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "password reset transaction failed")
	}

	return nil
}
