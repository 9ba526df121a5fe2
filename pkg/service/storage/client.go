package storage

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dcrisk/pkg/utils/safe"
	"google.golang.org/api/option"
)

// Scheme is the URL scheme of Cloud Storage objects
const Scheme = "gs://"

// MaxObjectSize bounds how much of an object Read downloads
const MaxObjectSize int64 = 16 << 20

var (
	ErrInvalidURL     = errors.New("invalid cloud storage URL")
	ErrObjectNotFound = errors.New("cloud storage object not found")
)

// Object identifies a Cloud Storage object
type Object struct {
	Bucket string
	Name   string
}

func (o Object) String() string {
	return Scheme + o.Bucket + "/" + o.Name
}

// IsURL reports whether s uses the gs:// scheme
func IsURL(s string) bool {
	return strings.HasPrefix(s, Scheme)
}

// ParseURL splits gs://bucket/path/to/object
func ParseURL(s string) (Object, error) {
	if !IsURL(s) {
		return Object{}, goerr.Wrap(ErrInvalidURL, "scheme must be gs", goerr.V("url", s))
	}

	bucket, name, ok := strings.Cut(strings.TrimPrefix(s, Scheme), "/")
	if !ok || bucket == "" || name == "" || strings.HasSuffix(name, "/") {
		return Object{}, goerr.Wrap(ErrInvalidURL, "bucket and object name are required", goerr.V("url", s))
	}
	return Object{Bucket: bucket, Name: name}, nil
}

// Client reads catalog definitions from Cloud Storage
type Client struct {
	client *storage.Client
}

type Option func(*options)

type options struct {
	clientOptions []option.ClientOption
}

// WithEndpoint points the client at an emulator such as fake-gcs-server
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
}

// WithClientOptions passes raw client options to the storage SDK
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

// New creates a client using Application Default Credentials unless overridden
func New(ctx context.Context, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	client, err := storage.NewClient(ctx, o.clientOptions...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cloud storage client")
	}
	return &Client{client: client}, nil
}

// Read downloads the whole object
func (c *Client) Read(ctx context.Context, obj Object) ([]byte, error) {
	reader, err := c.client.Bucket(obj.Bucket).Object(obj.Name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, goerr.Wrap(ErrObjectNotFound, "object does not exist", goerr.V("object", obj.String()))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("object", obj.String()))
	}
	defer safe.Close(ctx, reader)

	data, err := safe.ReadAll(reader, MaxObjectSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("object", obj.String()))
	}
	return data, nil
}

func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close cloud storage client")
	}
	return nil
}
