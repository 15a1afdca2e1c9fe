package descriptor

import (
	"fmt"
	"strings"

	"github.com/toyz/txsync/internal/errors"
	"github.com/toyz/txsync/internal/models"
	"github.com/toyz/txsync/internal/utils"
)

// Descriptor is a validated deployment descriptor
type Descriptor struct {
	Path             string
	Version          int
	MetadataComplete bool

	entries []models.SessionDescriptor
	byName  map[string]models.SessionDescriptor
}

// New validates a decoded document and builds its descriptor entries.
// Every problem in the document is reported, collected in an
// *errors.MultipleErrors when there is more than one.
func New(path string, doc *Document) (*Descriptor, error) {
	applyDefaults(doc)

	if err := validate(path, doc); err != nil {
		return nil, err
	}

	d := &Descriptor{
		Path:             path,
		Version:          doc.Version,
		MetadataComplete: doc.MetadataComplete,
		byName:           make(map[string]models.SessionDescriptor, len(doc.Components)),
	}

	for _, component := range doc.Components {
		var entry models.SessionDescriptor = sessionEntry{component: component}
		if doc.Version >= VersionCallbacks {
			entry = callbackEntry{sessionEntry{component: component}}
		}
		d.entries = append(d.entries, entry)
		d.byName[component.Name] = entry
	}

	return d, nil
}

// Components returns every entry in document order
func (d *Descriptor) Components() []models.SessionDescriptor {
	if d == nil {
		return nil
	}
	return d.entries
}

// Lookup finds an entry by component name
func (d *Descriptor) Lookup(name string) (models.SessionDescriptor, bool) {
	if d == nil {
		return nil, false
	}
	entry, ok := d.byName[name]
	return entry, ok
}

// IsMetadataComplete reports whether markers must be ignored
func (d *Descriptor) IsMetadataComplete() bool {
	return d != nil && d.MetadataComplete
}

func validate(path string, doc *Document) error {
	errs := &errors.MultipleErrors{}

	if err := utils.IsOneOf("version", VersionLegacy, VersionCallbacks)(doc.Version); err != nil {
		errs.Add(errors.NewDescriptorError(path, fmt.Sprintf("unsupported version %d", doc.Version)).WithCause(err))
	}

	nameRule := utils.NewValidatorChain(utils.NotEmpty("name"))
	sessionRule := utils.IsOneOf("session-type",
		models.SessionTypeStateful, models.SessionTypeStateless, models.SessionTypeSingleton)

	seen := make(map[string]bool, len(doc.Components))
	for i, c := range doc.Components {
		name := c.Name
		if err := nameRule.Validate(name); err != nil {
			name = fmt.Sprintf("#%d", i+1)
			errs.Add(errors.NewDescriptorFieldError(path, name, "name", "cannot be empty"))
		} else if seen[name] {
			errs.Add(errors.NewDescriptorFieldError(path, name, "name", "duplicate component name"))
		}
		seen[c.Name] = true

		if err := validateTypeName(c.Type); err != nil {
			errs.Add(errors.NewDescriptorFieldError(path, name, "type", err.(utils.ValidationError).Message))
		}
		if err := sessionRule(c.SessionType); err != nil {
			errs.Add(errors.NewDescriptorFieldError(path, name, "session-type", err.(utils.ValidationError).Message))
		}

		for _, role := range models.Roles {
			method := c.callbackMethod(role)
			if method == "" {
				continue
			}

			field := callbackField(role)
			if doc.Version == VersionLegacy {
				errs.Add(errors.NewDescriptorFieldError(path, name, field,
					fmt.Sprintf("callback methods require version %d", VersionCallbacks)))
				continue
			}
			if err := utils.IsValidGoIdentifier(field)(method); err != nil {
				errs.Add(errors.NewDescriptorFieldError(path, name, field, err.(utils.ValidationError).Message))
			}
		}
	}

	return errs.ErrorOrNil()
}

// validateTypeName accepts a struct name or an import path qualified one,
// such as example.com/shop/beans.Cart
func validateTypeName(typeName string) error {
	pkgPath, name := "", typeName
	if dot := strings.LastIndex(typeName, "."); dot >= 0 {
		pkgPath, name = typeName[:dot], typeName[dot+1:]
		if pkgPath == "" {
			return utils.ValidationError{Field: "type", Value: typeName, Message: "qualified type is missing its import path"}
		}
	}
	return utils.IsValidGoIdentifier("type")(name)
}
