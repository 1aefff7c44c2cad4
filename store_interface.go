package contactbook

import "context"

// Repository defines the capability set every contact backend satisfies.
// Missing keys are reported through the bool / nil results, never as errors.
type Repository interface {
	// Mutations
	Add(ctx context.Context, name, phoneRaw, email string) error
	UpdateEmail(ctx context.Context, name, newEmail string) (bool, error)
	UpdatePhone(ctx context.Context, name, newPhoneRaw string) (bool, error)
	Delete(ctx context.Context, name string) (*Contact, error)

	// Queries
	Get(ctx context.Context, name string) (*Contact, error)
	List(ctx context.Context, pageNo, pageSize int) ([]*Contact, error)
	Count(ctx context.Context) (int, error)

	// Bulk file transfer
	Export(ctx context.Context, path string) error
	Import(ctx context.Context, path string) error
}
