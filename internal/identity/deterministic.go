// Package identity derives stable UUIDs for records whose identity follows
// from their parent, such as the default roles of a workspace.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "richdoc:"

// UUID derives a deterministic UUID from key. Keys must be prefixed by
// record kind so different kinds never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SettingsUUID identifies the single settings record of a workspace.
func SettingsUUID(workspaceID uuid.UUID) uuid.UUID {
	return UUID(namespace + "settings:" + workspaceID.String())
}

// RoleUUID identifies a built-in role of a workspace by base type.
func RoleUUID(workspaceID uuid.UUID, baseType string) uuid.UUID {
	return UUID(namespace + "role:" + workspaceID.String() + ":" + strings.ToLower(strings.TrimSpace(baseType)))
}

// ContentGroupUUID identifies a default content group by name.
func ContentGroupUUID(workspaceID uuid.UUID, name string) uuid.UUID {
	return UUID(namespace + "content_group:" + workspaceID.String() + ":" + strings.ToLower(strings.TrimSpace(name)))
}
