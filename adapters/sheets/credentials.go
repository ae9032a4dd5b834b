package sheets

import (
	"fmt"
	"os"

	"mrportal/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
)

const serviceAccountType = "service_account"

// Credentials is a service-account key file. The raw JSON is handed to the
// oauth2 JWT flow; ClientEmail is kept for share instructions.
type Credentials struct {
	ClientEmail string
	content     []byte
}

// LoadCredentials reads a service-account JSON key file.
func LoadCredentials(path string) (*Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(path)
		}
		return nil, errors.Wrap(err, "failed to read service account file")
	}
	return ParseCredentials(content)
}

// ParseCredentials parses the JSON content of a service-account key. The
// private key is checked here so a broken file fails at startup.
func ParseCredentials(content []byte) (*Credentials, error) {
	if !gjson.ValidBytes(content) {
		return nil, errors.ConfigInvalid("service account file is not valid JSON")
	}

	if kind := gjson.GetBytes(content, "type").String(); kind != serviceAccountType {
		return nil, errors.ConfigInvalid(fmt.Sprintf("credentials type is %q, expected %q", kind, serviceAccountType))
	}

	fields := gjson.GetManyBytes(content, "client_email", "private_key")
	if fields[0].String() == "" || fields[1].String() == "" {
		return nil, errors.ConfigInvalid("service account file must contain client_email and private_key")
	}
	if _, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(fields[1].String())); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("invalid service account private key: %w", err))
	}

	return &Credentials{ClientEmail: fields[0].String(), content: content}, nil
}
