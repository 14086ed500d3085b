package cache

import (
	"fmt"

	"github.com/kiranshivaraju/mediagate/pkg/models"
)

func JobStatusKey(provider models.JobProvider, id string) string {
	return fmt.Sprintf("job:%s:%s", provider, id)
}
