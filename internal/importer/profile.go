package importer

import (
	"fmt"
	"os"
	"strings"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"gopkg.in/yaml.v3"
)

// Profile describes how one import type maps sheet columns onto a Record.
type Profile struct {
	Type gormModels.JobType

	// RefPrefix starts placeholder refs for rows without one.
	RefPrefix string

	// CustomerConstant, when set, is used for every row and the sheet is never consulted.
	CustomerConstant string
	RequireCustomer  bool

	DefaultPickup  string
	DefaultDropoff string

	// Preferred columns are tried one by one before the generic alias list.
	Preferred map[Field][]string
	Aliases   map[Field][]string
}

var genericAliases = map[Field][]string{
	FieldRef:            {"ref", "reference", "document no", "document", "ibt no", "ibt number", "transfer no", "transfer number", "order no", "order number"},
	FieldCustomer:       {"customer", "customer name", "client", "account", "account name"},
	FieldPickup:         {"pickup", "from branch", "source", "from", "origin", "source branch", "collect from"},
	FieldDropoff:        {"dropoff", "to branch", "destination", "to", "destination branch", "deliver to", "delivery address"},
	FieldWarehouse:      {"warehouse", "from warehouse", "source warehouse"},
	FieldPriority:       {"priority", "urgency", "rush", "status"},
	FieldPallets:        {"pallets", "pallet qty", "pallet quantity", "qty"},
	FieldOutstandingQty: {"outstanding qty", "outstanding", "outstanding quantity", "qty outstanding", "balance qty", "balance"},
	FieldEta:            {"eta", "transfer date", "date", "delivery date", "required date", "due date"},
	FieldNotes:          {"notes", "remarks", "comment", "description", "items"},
}

const (
	IBTCustomer = "IBT - Internal Transfer"
)

// IBTProfile maps internal branch transfer sheets.
func IBTProfile() *Profile {
	return &Profile{
		Type:             gormModels.JobTypeIBT,
		RefPrefix:        "IBT",
		CustomerConstant: IBTCustomer,
		DefaultPickup:    "Source Branch",
		DefaultDropoff:   "Destination Branch",
		Preferred: map[Field][]string{
			FieldRef:       {"ibt no", "transfer no"},
			FieldWarehouse: {"warehouse"},
			FieldEta:       {"delivery date"},
			FieldNotes:     {"inventory description"},
		},
		Aliases: cloneAliases(genericAliases),
	}
}

// OrderProfile maps customer order sheets. Orders need a real customer.
func OrderProfile() *Profile {
	return &Profile{
		Type:            gormModels.JobTypeOrder,
		RefPrefix:       "ORD",
		RequireCustomer: true,
		DefaultPickup:   "Main Warehouse",
		DefaultDropoff:  "Customer Site",
		Preferred: map[Field][]string{
			FieldRef:       {"order no", "sales order"},
			FieldWarehouse: {"warehouse"},
		},
		Aliases: cloneAliases(genericAliases),
	}
}

// Profiles is the set of import types keyed by job type.
type Profiles map[gormModels.JobType]*Profile

func DefaultProfiles() Profiles {
	return Profiles{
		gormModels.JobTypeIBT:   IBTProfile(),
		gormModels.JobTypeOrder: OrderProfile(),
	}
}

// Get returns the profile for an import type name; the empty name selects ibt.
func (p Profiles) Get(name string) (*Profile, error) {
	t := gormModels.JobType(strings.ToLower(strings.TrimSpace(name)))
	if t == "" {
		t = gormModels.JobTypeIBT
	}
	profile, ok := p[t]
	if !ok {
		return nil, fmt.Errorf("unknown import type %q", name)
	}
	return profile, nil
}

// LoadProfiles returns the defaults overlaid with the YAML file at path.
// Keys present in the file replace the default value; omitted keys are kept.
func LoadProfiles(path string) (Profiles, error) {
	profiles := DefaultProfiles()
	if path == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import profiles: %w", err)
	}
	if err := profiles.Overlay(data); err != nil {
		return nil, err
	}
	return profiles, nil
}

type profileOverride struct {
	RefPrefix        *string            `yaml:"refPrefix"`
	CustomerConstant *string            `yaml:"customerConstant"`
	RequireCustomer  *bool              `yaml:"requireCustomer"`
	DefaultPickup    *string            `yaml:"defaultPickup"`
	DefaultDropoff   *string            `yaml:"defaultDropoff"`
	Preferred        map[Field][]string `yaml:"preferred"`
	Aliases          map[Field][]string `yaml:"aliases"`
}

// Overlay merges YAML overrides into the profiles.
func (p Profiles) Overlay(data []byte) error {
	var overrides map[string]*profileOverride
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse import profiles: %w", err)
	}

	for name, o := range overrides {
		profile, err := p.Get(name)
		if err != nil {
			return err
		}
		if o == nil {
			continue
		}
		if o.RefPrefix != nil {
			profile.RefPrefix = *o.RefPrefix
		}
		if o.CustomerConstant != nil {
			profile.CustomerConstant = *o.CustomerConstant
		}
		if o.RequireCustomer != nil {
			profile.RequireCustomer = *o.RequireCustomer
		}
		if o.DefaultPickup != nil {
			profile.DefaultPickup = *o.DefaultPickup
		}
		if o.DefaultDropoff != nil {
			profile.DefaultDropoff = *o.DefaultDropoff
		}
		for field, aliases := range o.Aliases {
			profile.Aliases[field] = aliases
		}
		if profile.Preferred == nil {
			profile.Preferred = map[Field][]string{}
		}
		for field, aliases := range o.Preferred {
			profile.Preferred[field] = aliases
		}
	}
	return nil
}

func cloneAliases(src map[Field][]string) map[Field][]string {
	out := make(map[Field][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}
