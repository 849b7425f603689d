// Package catalog holds the static taxonomy of pet-product categories and the
// metadata fields a product in each category carries. The taxonomy is fixed
// at build time; stores pick categories, they do not define them.
package catalog

// FieldType enumerates the input types a metadata field can take.
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeSelect  FieldType = "select"
	FieldTypeBoolean FieldType = "boolean"
)

// MetadataField describes one product attribute within a category.
type MetadataField struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// Category is one node of the product taxonomy.
type Category struct {
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Fields []MetadataField `json:"fields"`
}

var categories = []Category{
	{
		Slug: "dog-supplies",
		Name: "Dog Supplies",
		Fields: []MetadataField{
			{Key: "breed_size", Label: "Breed Size", Type: FieldTypeSelect, Required: true, Options: []string{"toy", "small", "medium", "large", "giant"}},
			{Key: "age_group", Label: "Age Group", Type: FieldTypeSelect, Required: true, Options: []string{"puppy", "adult", "senior"}},
			{Key: "flavor", Label: "Flavor", Type: FieldTypeText},
			{Key: "weight_kg", Label: "Weight (kg)", Type: FieldTypeNumber},
			{Key: "grain_free", Label: "Grain Free", Type: FieldTypeBoolean},
		},
	},
	{
		Slug: "cat-supplies",
		Name: "Cat Supplies",
		Fields: []MetadataField{
			{Key: "age_group", Label: "Age Group", Type: FieldTypeSelect, Required: true, Options: []string{"kitten", "adult", "senior"}},
			{Key: "indoor_outdoor", Label: "Indoor/Outdoor", Type: FieldTypeSelect, Options: []string{"indoor", "outdoor", "both"}},
			{Key: "flavor", Label: "Flavor", Type: FieldTypeText},
			{Key: "litter_type", Label: "Litter Type", Type: FieldTypeSelect, Options: []string{"clay", "silica", "plant-based"}},
		},
	},
	{
		Slug: "bird-supplies",
		Name: "Bird Supplies",
		Fields: []MetadataField{
			{Key: "bird_type", Label: "Bird Type", Type: FieldTypeSelect, Required: true, Options: []string{"parakeet", "cockatiel", "parrot", "finch", "canary"}},
			{Key: "cage_size", Label: "Cage Size", Type: FieldTypeSelect, Options: []string{"small", "medium", "large", "aviary"}},
			{Key: "material", Label: "Material", Type: FieldTypeText},
		},
	},
	{
		Slug: "fish-aquatics",
		Name: "Fish & Aquatics",
		Fields: []MetadataField{
			{Key: "water_type", Label: "Water Type", Type: FieldTypeSelect, Required: true, Options: []string{"freshwater", "saltwater", "brackish"}},
			{Key: "tank_size_l", Label: "Tank Size (L)", Type: FieldTypeNumber},
			{Key: "heated", Label: "Heated", Type: FieldTypeBoolean},
		},
	},
	{
		Slug: "reptile-supplies",
		Name: "Reptile Supplies",
		Fields: []MetadataField{
			{Key: "species", Label: "Species", Type: FieldTypeText, Required: true},
			{Key: "habitat_type", Label: "Habitat Type", Type: FieldTypeSelect, Options: []string{"terrarium", "vivarium", "paludarium"}},
			{Key: "uvb_required", Label: "UVB Required", Type: FieldTypeBoolean},
		},
	},
	{
		Slug: "small-pet-supplies",
		Name: "Small Pet Supplies",
		Fields: []MetadataField{
			{Key: "pet_type", Label: "Pet Type", Type: FieldTypeSelect, Required: true, Options: []string{"rabbit", "guinea-pig", "hamster", "ferret", "chinchilla"}},
			{Key: "material", Label: "Material", Type: FieldTypeText},
			{Key: "chew_safe", Label: "Chew Safe", Type: FieldTypeBoolean},
		},
	},
}

// clone copies a category including its fields and options, so callers can
// never mutate the catalog through a returned value.
func clone(c Category) Category {
	out := c
	out.Fields = make([]MetadataField, len(c.Fields))
	for i, f := range c.Fields {
		out.Fields[i] = f
		if len(f.Options) > 0 {
			out.Fields[i].Options = append([]string(nil), f.Options...)
		}
	}
	return out
}

// Categories returns the full taxonomy.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = clone(c)
	}
	return out
}

// BySlug looks up a category by its slug.
func BySlug(slug string) (Category, bool) {
	for _, c := range categories {
		if c.Slug == slug {
			return clone(c), true
		}
	}
	return Category{}, false
}

// ValidSlug reports whether the slug names a known category.
func ValidSlug(slug string) bool {
	_, ok := BySlug(slug)
	return ok
}
