/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/travel-web/apiserver/config"
	"github.com/travel-web/apiserver/internal/db"
	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/internal/store"
	"github.com/travel-web/apiserver/types"
)

// seedCmd represents the seed command. Seeding is idempotent: a tour is
// only created when no tour with the same name and category exists yet.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the catalog with sample tours",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		catalog := services.NewCatalogService(store.NewTourRepository(dbConn))
		created, err := catalog.Seed(cmd.Context(), sampleTours())
		if err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}

		fmt.Printf("seed complete: %d tours created\n", created)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func sampleTours() []types.Tour {
	return []types.Tour{
		{Name: "Cartagena", Description: "Hermosa ciudad costera con playas paradisíacas", Duration: "7 días de viaje", Price: "7.5M", Category: types.CategoryPlace},
		{Name: "Santa Marta", Description: "Ciudad histórica con playas hermosas y montañas", Duration: "6 días de viaje", Price: "10.5M", Category: types.CategoryPlace},
		{Name: "Guajira", Description: "Desierto, playas y cultura Wayuu", Duration: "5 días de viaje", Price: "20.5M", Category: types.CategoryPlace},
		{Name: "Acuario", Description: "Espectacular acuario submarino con vida marina", Duration: "12 días de viaje", Price: "4.5M", Category: types.CategoryPlace},
		{Name: "Sierra Nevada", Description: "Montañas nevadas y paisajes impresionantes", Duration: "7 días de viaje", Price: "6.9M", Category: types.CategoryPlace},
		{Name: "Ciudad Perdida", Description: "Antigua ciudad de la cultura Tayrona", Duration: "7 días de viaje", Price: "6.9M", Category: types.CategoryPlace},

		{Name: "Cartagena", Description: "Ciudad amurallada con arquitectura colonial", Duration: "7 días de viaje", Price: "7.5M", Category: types.CategoryCity},
		{Name: "Santa Marta", Description: "La ciudad más antigua de Colombia", Duration: "6 días de viaje", Price: "10.5M", Category: types.CategoryCity},
		{Name: "Guajira", Description: "Territorio indígena con paisajes únicos", Duration: "6 días de viaje", Price: "30.5M", Category: types.CategoryCity},
		{Name: "Acuario", Description: "Parque temático marino en la costa", Duration: "4 días de viaje", Price: "4.5M", Category: types.CategoryCity},
		{Name: "Sierra Nevada", Description: "Región montañosa con pueblos indígenas", Duration: "7 días de viaje", Price: "6.9M", Category: types.CategoryCity},
		{Name: "Ciudad Perdida", Description: "Sitio arqueológico milenario", Duration: "7 días de viaje", Price: "6.9M", Category: types.CategoryCity},
	}
}
