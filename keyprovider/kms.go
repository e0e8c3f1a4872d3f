package keyprovider

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers so Chain can open a Keeper for any
	// of them based on the URI scheme alone.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSKeeper decrypts master key ciphertext using a KMS key. *secrets.Keeper
// implements this.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens a KMSKeeper for a given key URI. It exists so tests can
// substitute a fake keeper without talking to a real KMS.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// gocloudKMSService implements KMSService using gocloud.dev/secrets.
type gocloudKMSService struct{}

// NewKMSService returns a KMSService backed by gocloud.dev/secrets, capable
// of opening gcpkms://, awskms://, azurekeyvault://, hashivault:// and
// base64key:// key URIs.
func NewKMSService() KMSService {
	return &gocloudKMSService{}
}

func (k *gocloudKMSService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
