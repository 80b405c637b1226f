package inventoryapi

import (
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

// UploadsURLPrefix is where stored images are served from.
const UploadsURLPrefix = "/static/uploads"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ImageStore writes uploaded images under one directory. Every stored file
// gets a snowflake prefix so two uploads with the same name never collide.
type ImageStore struct {
	dir  string
	node *snowflake.Node
}

func NewImageStore(dir string, nodeID int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "create snowflake node")
	}
	return &ImageStore{dir: dir, node: node}, nil
}

func (s *ImageStore) Dir() string {
	return s.dir
}

// Save stores fh and returns the URL path it is served under.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	name := s.node.Generate().String() + "_" + secureFilename(fh.Filename)
	err = writeFile(filepath.Join(s.dir, name), func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	})
	if err != nil {
		return "", errors.Wrap(err, "write image file")
	}
	return UploadsURLPrefix + "/" + name, nil
}

// secureFilename keeps the base name and replaces anything outside [A-Za-z0-9._-].
func secureFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." || name == "_" {
		return "image"
	}
	return name
}
