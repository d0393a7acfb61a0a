package order

import "context"

// Navigator hands the composed deep link to whatever opens it. There is no
// feedback about whether the messaging app actually received it.
type Navigator interface {
	Open(ctx context.Context, url string) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string) error

// Open calls f.
func (f NavigatorFunc) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}
