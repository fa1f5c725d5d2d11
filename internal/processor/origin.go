package processor

import "github.com/horockey/ibp/internal/model"

// OriginVerifier is the privilege check in front of every action.
type OriginVerifier interface {
	EnsureRoot(origin model.Origin) error
	EnsureSigned(origin model.Origin) (model.AccountID, error)
}

var _ OriginVerifier = originVerifier{}

type originVerifier struct{}

func DefaultOriginVerifier() OriginVerifier {
	return originVerifier{}
}

func (originVerifier) EnsureRoot(origin model.Origin) error {
	if !origin.Root {
		return model.ErrNotRoot
	}
	return nil
}

func (originVerifier) EnsureSigned(origin model.Origin) (model.AccountID, error) {
	if !origin.IsSigned() {
		return "", model.ErrNotSigned
	}
	return origin.Signer, nil
}
