package fragment

import "fmt"

// ContainerNotFoundError means the host has no container with the requested id.
type ContainerNotFoundError struct {
	ID string
}

func (e *ContainerNotFoundError) Error() string {
	return fmt.Sprintf("container not found: %q", e.ID)
}

// ImageLoadError means the source image could not be fetched or decoded.
type ImageLoadError struct {
	Src string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %q: %v", e.Src, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}
