package notif

import (
	"fmt"

	"fabtrak/internal/common"
)

// systemTemplate maps a business-event action to the (title, message, type)
// triple of the resulting notification. ok is false for an unknown action.
func systemTemplate(action common.EntityAction, entityName string) (title, message string, typ common.NotificationType, ok bool) {
	switch action {
	case common.ActionCreated:
		return "New Record", fmt.Sprintf("%s created", entityName), common.TypeSuccess, true
	case common.ActionUpdated:
		return "Update", fmt.Sprintf("%s updated", entityName), common.TypeInfo, true
	case common.ActionDeleted:
		return "Deletion", fmt.Sprintf("%s deleted", entityName), common.TypeWarning, true
	case common.ActionStatusChanged:
		return "Status Change", fmt.Sprintf("%s status changed", entityName), common.TypeInfo, true
	}
	return "", "", "", false
}

// entityActionURL builds the deep link for a fan-out notification,
// e.g. /projects/p1 for entity type "project".
func entityActionURL(entityType common.EntityType, entityID string) string {
	return fmt.Sprintf("/%ss/%s", entityType, entityID)
}
