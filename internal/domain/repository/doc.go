// Package repository define las interfaces de repositorio de dominio del lobby.
//
// Estas interfaces representan contratos de negocio, independientes del
// almacenamiento subyacente (PostgreSQL, SQLite, MySQL).
//
// Las implementaciones concretas viven en internal/store/adapters/.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│           lobby.Store (fachada) / lobbyctl          │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (interfaces)               │
//	│   UserRepository, GameRepository, PartyRepository   │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	         ┌──────────────┼──────────────┬─────────────┐
//	         ▼              ▼              ▼             ▼
//	┌─────────────┐  ┌─────────────┐  ┌─────────┐  ┌─────────┐
//	│  adapters/  │  │  adapters/  │  │adapters/│  │adapters/│
//	│     pg      │  │   sqlite    │  │  mysql  │  │  noop   │
//	└─────────────┘  └─────────────┘  └─────────┘  └─────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Cada escritura es una transacción; ante error no queda nada escrito
//   - Errores de dominio están en errors.go
package repository
