package download

import "errors"

var (
	ErrNotAuthorized   = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
	ErrNotAFreeProduct = errors.New("not a free product")
	ErrTokenNotFound   = errors.New("token not found")
)
