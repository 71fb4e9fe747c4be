package catalog

import "fmt"

type Category string

const (
	CategoryHair     Category = "hair"
	CategoryNails    Category = "nails"
	CategoryMakeup   Category = "makeup"
	CategorySkincare Category = "skincare"
)

// Service is an immutable catalog entry. The catalog is fixed at deploy time;
// nothing in the booking flow creates or mutates services.
type Service struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           int      `json:"price"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
}

// Catalog is a read-only lookup of offered services, loaded once at process
// start and passed explicitly to the services that need it.
type Catalog struct {
	list  []Service
	index map[string]Service
}

func New(services []Service) (*Catalog, error) {
	c := &Catalog{
		list:  make([]Service, len(services)),
		index: make(map[string]Service, len(services)),
	}
	copy(c.list, services)
	for _, svc := range services {
		if svc.DurationMinutes <= 0 {
			return nil, fmt.Errorf("service %q: duration must be positive, got %d", svc.ID, svc.DurationMinutes)
		}
		if _, dup := c.index[svc.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", svc.ID)
		}
		c.index[svc.ID] = svc
	}
	return c, nil
}

func (c *Catalog) ByID(id string) (Service, bool) {
	svc, ok := c.index[id]
	return svc, ok
}

// List returns the services in catalog order.
func (c *Catalog) List() []Service {
	out := make([]Service, len(c.list))
	copy(out, c.list)
	return out
}

// Default returns the salon's current offering.
func Default() *Catalog {
	c, err := New([]Service{
		{
			ID:              "1",
			Name:            "Cílios | Mega brasileiro",
			DurationMinutes: 240,
			Price:           85,
			Description:     "Extensão de cílios com efeito mega volume",
			Category:        CategoryHair,
		},
		{
			ID:              "2",
			Name:            "Cílios | Volume brasileiro",
			DurationMinutes: 180,
			Price:           65,
			Description:     "Extensão de cílios com volume natural",
			Category:        CategoryHair,
		},
		{
			ID:              "3",
			Name:            "Sobrancelhas | Design com henna",
			DurationMinutes: 60,
			Price:           38,
			Description:     "Design de sobrancelhas com aplicação de henna",
			Category:        CategoryNails,
		},
		{
			ID:              "4",
			Name:            "Sobrancelhas | Design simples",
			DurationMinutes: 30,
			Price:           25,
			Description:     "Design de sobrancelhas com pinça e modelagem",
			Category:        CategoryNails,
		},
		{
			ID:              "5",
			Name:            "Epilação do buço",
			DurationMinutes: 30,
			Price:           8,
			Description:     "Epilação com cera para a região do buço",
			Category:        CategoryMakeup,
		},
	})
	if err != nil {
		panic(err) // static data, validated at init
	}
	return c
}
