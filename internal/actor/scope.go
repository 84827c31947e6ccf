package actor

import (
	"gorm.io/gorm"

	"github.com/clinicore/clinic-backend/internal/models"
)

// OwnedConsultations returns a GORM scope restricting a consultation query to
// rows the actor may see: everything for admins, own rows for doctors and
// patients. Subqueries rather than joins so callers can stack further joins
// without alias collisions.
func OwnedConsultations(a Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch a.Role {
		case models.RoleAdmin:
			return db
		case models.RoleDoctor:
			return db.Where(
				"consultations.doctor_id IN (SELECT id FROM doctors WHERE user_id = ?)",
				a.UserID,
			)
		case models.RolePatient:
			return db.Where(
				"consultations.patient_id IN (SELECT id FROM patients WHERE user_id = ?)",
				a.UserID,
			)
		}
		// Callers reject roles outside the set before querying; if one
		// slips through anyway it matches no rows.
		return db.Where("1 = 0")
	}
}
