// Command ligactl is the league operations CLI.
//
// Usage:
//
//	ligactl rol generar --torneo t1 --categoria varonil --tipo todos_contra_todos --inicio 2026-09-05 --fin 2026-11-28
//	ligactl rol generar --torneo t1 --categoria femenil --tipo limitado --jornadas 10 --inicio 2026-09-05 --fin 2026-10-31 --dias sabado --horarios 09:00,10:30,12:00
//	ligactl rol limpiar --torneo t1 --categoria varonil
//	ligactl db ping
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ligaflagmx/liga-api/internal/config"
	"github.com/ligaflagmx/liga-api/internal/db"
	"github.com/ligaflagmx/liga-api/internal/directory"
	"github.com/ligaflagmx/liga-api/internal/schedule"
	"github.com/ligaflagmx/liga-api/internal/service"
	"github.com/ligaflagmx/liga-api/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "ligactl",
		Short: "Liga Flag operations CLI",
	}

	root.AddCommand(rolCmd())
	root.AddCommand(dbCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// rol command
// --------------------------------------------------------------------------

func rolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rol",
		Short: "Generate or clear fixture schedules",
	}
	cmd.AddCommand(rolGenerarCmd())
	cmd.AddCommand(rolLimpiarCmd())
	return cmd
}

func rolGenerarCmd() *cobra.Command {
	var (
		torneo, categoria, tipo string
		jornadas, duracion      int
		inicio, fin             string
		dias, horarios          []string
	)
	cmd := &cobra.Command{
		Use:   "generar",
		Short: "Generate a round-robin fixture schedule for a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, svc *service.ScheduleService) error {
				fechaInicio, err := time.Parse("2006-01-02", inicio)
				if err != nil {
					return fmt.Errorf("bad --inicio: %w", err)
				}
				fechaFin, err := time.Parse("2006-01-02", fin)
				if err != nil {
					return fmt.Errorf("bad --fin: %w", err)
				}
				allowed := schedule.DefaultDias
				if len(dias) > 0 {
					if allowed, err = schedule.ParseDias(dias); err != nil {
						return err
					}
				}

				start := time.Now()
				matches, err := svc.Generate(ctx, service.GenerateInput{
					TorneoID:    torneo,
					Categoria:   categoria,
					Modo:        schedule.Mode(tipo),
					Jornadas:    jornadas,
					FechaInicio: fechaInicio,
					FechaFin:    fechaFin,
					Dias:        allowed,
					Horarios:    horarios,
					DuracionMin: duracion,
				}, cliActor())
				if err != nil {
					return err
				}
				logger.Info("Schedule generated",
					"partidos", len(matches),
					"duration", time.Since(start).Round(time.Millisecond))
				for _, m := range matches {
					fmt.Printf("%s  %s vs %s  %s\n",
						m.FechaHora.Format("2006-01-02 15:04"),
						m.EquipoLocalID, m.EquipoVisitanteID, m.ID)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&torneo, "torneo", "", "tournament id (required)")
	cmd.Flags().StringVar(&categoria, "categoria", "", "category (required)")
	cmd.Flags().StringVar(&tipo, "tipo", string(schedule.ModeTodosContraTodos), "todos_contra_todos or limitado")
	cmd.Flags().IntVar(&jornadas, "jornadas", 0, "fixture count for limitado mode")
	cmd.Flags().StringVar(&inicio, "inicio", "", "start date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&fin, "fin", "", "end date YYYY-MM-DD (required)")
	cmd.Flags().StringSliceVar(&dias, "dias", nil, "allowed weekdays (default sabado,domingo)")
	cmd.Flags().StringSliceVar(&horarios, "horarios", nil, "preferred kickoff times HH:MM")
	cmd.Flags().IntVar(&duracion, "duracion", 50, "match duration in minutes")
	_ = cmd.MarkFlagRequired("torneo")
	_ = cmd.MarkFlagRequired("categoria")
	_ = cmd.MarkFlagRequired("inicio")
	_ = cmd.MarkFlagRequired("fin")
	return cmd
}

func rolLimpiarCmd() *cobra.Command {
	var torneo, categoria string
	cmd := &cobra.Command{
		Use:   "limpiar",
		Short: "Remove a category's not-yet-started generated fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, svc *service.ScheduleService) error {
				n, err := svc.Clear(ctx, torneo, categoria, cliActor())
				if err != nil {
					return err
				}
				logger.Info("Schedule cleared", "torneo", torneo, "categoria", categoria, "removed", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&torneo, "torneo", "", "tournament id (required)")
	cmd.Flags().StringVar(&categoria, "categoria", "", "category (required)")
	_ = cmd.MarkFlagRequired("torneo")
	_ = cmd.MarkFlagRequired("categoria")
	return cmd
}

// --------------------------------------------------------------------------
// db command
// --------------------------------------------------------------------------

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Verify database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, _ *service.ScheduleService) error {
				logger.Info("Database reachable")
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func cliActor() service.Actor {
	return service.Actor{ID: "ligactl", Rol: "admin"}
}

func withServices(fn func(ctx context.Context, svc *service.ScheduleService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	dir := directory.NewPG(pool.Pool)
	auth := directory.NewRoleSet(cfg.PrivilegedRoles)
	svc := service.NewScheduleService(store.New(pool.Pool), dir,
		directory.TournamentView{PG: dir}, auth, logger)
	return fn(ctx, svc)
}
