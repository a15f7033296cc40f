package render

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"

	"grafop/internal/store"
)

// DatabaseConfig renders the [database] section of grafana.ini from the
// accumulated backend record. With no backend the section is rendered empty
// rather than omitted, so pushing the result clears any stale credentials
// left in the file by an earlier configuration.
func DatabaseConfig(database *store.DatabaseRecord) ([]byte, error) {
	file := ini.Empty()

	section, err := file.NewSection("database")
	if err != nil {
		return nil, fmt.Errorf("creating database section: %w", err)
	}

	if database != nil {
		url := fmt.Sprintf("%s://%s:%s@%s/%s",
			database.Type, database.User, database.Password, database.Host, database.Name)

		for _, kv := range []struct{ key, value string }{
			{"type", database.Type},
			{"host", database.Host},
			{"name", database.Name},
			{"user", database.User},
			{"password", database.Password},
			{"url", url},
		} {
			if _, err := section.NewKey(kv.key, kv.value); err != nil {
				return nil, fmt.Errorf("setting database.%s: %w", kv.key, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serializing grafana.ini: %w", err)
	}
	return buf.Bytes(), nil
}
