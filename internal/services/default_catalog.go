package services

import (
	"time"

	"github.com/terraincognita07/flowbit/internal/models"
)

// DefaultCatalogVersion is stamped on every seeded task. Bump it whenever
// DefaultCatalog changes.
const DefaultCatalogVersion = "2025.10"

type CatalogEntry struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueAt       time.Time
	AssignedBy  string
	IsPriority  bool
}

func catalogDue(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 23, 59, 59, 0, time.UTC)
}

var defaultCatalog = []CatalogEntry{
	{
		Title:       "Propuesta técnica y estimación — e-commerce Grupo Andina",
		Description: "Documento de alcance y estimación inicial del e-commerce.",
		Priority:    models.PriorityHigh,
		Status:      models.StatusPending,
		DueAt:       catalogDue(time.October, 12),
		AssignedBy:  "Joaquin Fernandez",
		IsPriority:  true,
	},
	{
		Title:       "Plan de UAT — app logística LogiTrans",
		Description: "Casos de prueba y criterios de aceptación para UAT.",
		Priority:    models.PriorityMedium,
		Status:      models.StatusPending,
		DueAt:       catalogDue(time.October, 15),
		AssignedBy:  "Valentina Olivares",
		IsPriority:  false,
	},
	{
		Title:       "Integración de pagos (MP) — RetailFit, checkout unificado",
		Description: "Configurar y probar pagos con Mercado Pago en checkout.",
		Priority:    models.PriorityHigh,
		Status:      models.StatusInProgress,
		DueAt:       catalogDue(time.October, 10),
		AssignedBy:  "Mateo Latigano",
		IsPriority:  true,
	},
	{
		Title:       "Tablero PMO de KPIs por proyecto (Flowbit interno)",
		Description: "Diseñar tablero inicial con KPIs y fuentes de datos.",
		Priority:    models.PriorityMedium,
		Status:      models.StatusInProgress,
		DueAt:       catalogDue(time.October, 12),
		AssignedBy:  "Joaquin Fernandez",
		IsPriority:  false,
	},
	{
		Title:       "Kickoff CRM SaludPlus — acta y plan de comunicaciones",
		Description: "Acta de kickoff y plan de comunicaciones del proyecto.",
		Priority:    models.PriorityLow,
		Status:      models.StatusCompleted,
		DueAt:       catalogDue(time.October, 5),
		AssignedBy:  "Valentina Olivares",
		IsPriority:  false,
	},
	{
		Title:       "Entrega Sprint 4 AgroData — demo y retro con cliente",
		Description: "Demo entregada, feedback registrado y retro cerrada.",
		Priority:    models.PriorityMedium,
		Status:      models.StatusCompleted,
		DueAt:       catalogDue(time.October, 6),
		AssignedBy:  "Mateo Latigano",
		IsPriority:  true,
	},
}

// DefaultCatalog returns a copy of the seeded work items in seeding order.
func DefaultCatalog() []CatalogEntry {
	entries := make([]CatalogEntry, len(defaultCatalog))
	copy(entries, defaultCatalog)
	return entries
}

func (entry CatalogEntry) task(now time.Time) models.Task {
	return models.Task{
		Title:          entry.Title,
		Description:    entry.Description,
		Priority:       entry.Priority,
		Status:         entry.Status,
		DueAt:          entry.DueAt,
		AssignedBy:     entry.AssignedBy,
		Note:           "",
		CreatedAt:      now,
		UpdatedAt:      now,
		CatalogVersion: DefaultCatalogVersion,
	}
}
