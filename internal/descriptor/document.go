// Package descriptor reads the deployment descriptor: an optional YAML or
// HCL document that declares components and, from version 2 on, names their
// transaction callback methods.
//
// YAML form:
//
//	version: 2
//	metadata-complete: false
//	components:
//	  - name: ShoppingCart
//	    type: Cart
//	    after-begin-method: Open
//
// HCL form:
//
//	version = 2
//	component "ShoppingCart" {
//	  type               = "Cart"
//	  after-begin-method = "Open"
//	}
package descriptor

import (
	"github.com/toyz/txsync/internal/models"
)

// Document versions
const (
	// VersionLegacy documents declare components only; callbacks come from
	// markers or the SessionSynchronization interface
	VersionLegacy = 1
	// VersionCallbacks documents may name callback methods
	VersionCallbacks = 2
	// DefaultVersion applies when a document omits version
	DefaultVersion = VersionCallbacks
)

// Document is the decoded form shared by the YAML and HCL syntaxes
type Document struct {
	Version          int         `yaml:"version,omitempty" hcl:"version,optional"`
	MetadataComplete bool        `yaml:"metadata-complete,omitempty" hcl:"metadata-complete,optional"`
	Components       []Component `yaml:"components" hcl:"component,block"`
}

// Component is one component entry of a Document
type Component struct {
	Name                   string `yaml:"name" hcl:"name,label"`
	Type                   string `yaml:"type,omitempty" hcl:"type,optional"`
	SessionType            string `yaml:"session-type,omitempty" hcl:"session-type,optional"`
	AfterBeginMethod       string `yaml:"after-begin-method,omitempty" hcl:"after-begin-method,optional"`
	AfterCompletionMethod  string `yaml:"after-completion-method,omitempty" hcl:"after-completion-method,optional"`
	BeforeCompletionMethod string `yaml:"before-completion-method,omitempty" hcl:"before-completion-method,optional"`
}

// callbackMethod returns the method named for role, empty when unset
func (c Component) callbackMethod(role models.Role) string {
	switch role {
	case models.AfterBegin:
		return c.AfterBeginMethod
	case models.AfterCompletion:
		return c.AfterCompletionMethod
	case models.BeforeCompletion:
		return c.BeforeCompletionMethod
	default:
		return ""
	}
}

// callbackField is the document field name for role
func callbackField(role models.Role) string {
	return role.String() + "-method"
}

// applyDefaults fills in default values for optional fields
func applyDefaults(doc *Document) {
	if doc.Version == 0 {
		doc.Version = DefaultVersion
	}

	for i := range doc.Components {
		c := &doc.Components[i]
		if c.Type == "" {
			c.Type = c.Name
		}
		if c.SessionType == "" {
			c.SessionType = models.SessionTypeStateful
		}
	}
}

// sessionEntry is a component of a legacy document. It implements only
// models.SessionDescriptor, so the merger never reads callbacks from it.
type sessionEntry struct {
	component Component
}

func (e sessionEntry) ComponentName() string { return e.component.Name }
func (e sessionEntry) TypeName() string      { return e.component.Type }
func (e sessionEntry) SessionType() string   { return e.component.SessionType }

// callbackEntry is a component of a version 2 document
type callbackEntry struct {
	sessionEntry
}

// CallbackMethod implements models.CallbackDescriptor
func (e callbackEntry) CallbackMethod(role models.Role) (string, bool) {
	method := e.component.callbackMethod(role)
	return method, method != ""
}
