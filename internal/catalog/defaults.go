package catalog

import "github.com/Veraticus/la-lenera/internal/model"

// Default returns the compiled-in catalog for the Cúcuta site.
func Default() *Catalog {
	return &Catalog{
		Phone:            "573005648309",
		City:             "Cúcuta",
		RateLimitSeconds: 3,
		Bundles: []model.Bundle{
			{ID: "asado", Title: "Pa'l Asado", Subtitle: "La medida justa.", IconID: "steak"},
			{ID: "medio", Title: "Medio Viaje", Subtitle: "La preferida del barrio.", IconID: "logs", Popular: true},
			{ID: "full", Title: "Viaje Full", Subtitle: "Leñera llena por mes.", IconID: "truck"},
		},
		Neighborhoods: []string{
			Sentinel,
			"Aeropuerto", "Alamos", "Aniversario I", "Aniversario II", "Antonia Santos",
			"Atalaya Primera Etapa", "Bajo Pamplonita", "Belisario", "Bellavista", "Bocono",
			"Bogota", "Bosque Popular", "Brisas del Aeropuerto", "Brisas del Paraiso",
			"Caobos", "Carora", "Ceiba", "Ceiba II", "Centro", "Chapinero", "Claret",
			"Comuneros", "Contento", "Cundinamarca", "El Bosque", "El Callejon",
			"El Llano", "El Rosal", "Estadio", "Garcia Herreros", "Guaimaral", "Guarinos",
			"La Cabrera", "La Florida", "La Riviera", "Lleras", "Loma de Bolivar", "Los Patios",
			"Niza", "Obreros", "Panamericano", "Paraiso", "Pescadero", "Popular",
			"Prados del Este", "Prados del Norte", "Quinta Bosch", "Quinta Oriental",
			"Residencial Bolivar", "Rosemberg", "San Eduardo", "San Luis", "San Martin",
			"San Mateo", "San Miguel", "San Rafael", "Santander", "Santo Domingo",
			"Siglo XXI", "Tasajero", "Torcoroma", "Trapiches", "Valle del Lili",
			"Villa del Rosario", "Virgilio Barco",
		},
		Schedule: model.Schedule{
			OpenHour:  7,
			CloseHour: 18,
			Timezone:  "America/Bogota",
		},
		Testimonials: []model.Testimonial{
			{ID: 1, Text: "Esa leña aguanta bastante, con 2 rollos hicimos el asado.", Author: "Carlos M.", Location: "Prados del Este"},
			{ID: 2, Text: "Me gusta que la leña viene seca, prende de una. Pedí medio viaje.", Author: "Restaurante La Fogata", Location: "La Riviera"},
			{ID: 3, Text: "Llegó rapidito al negocio. La carga completa rinde para el fin de semana.", Author: "Asadero El Tizón", Location: "Ceiba II"},
			{ID: 4, Text: "Buen servicio, pedí 5 rollos y me los dejaron en la puerta.", Author: "Andrés P.", Location: "Bellavista"},
			{ID: 5, Text: "La mejor leña de Cúcuta, no humea tanto. Recomendados.", Author: "Sra. Gloria", Location: "San Luis"},
			{ID: 6, Text: "El domicilio fue volando. Pedí pal asado y en 20 min estaban aquí.", Author: "Jorge L.", Location: "Boconó"},
			{ID: 7, Text: "Los rollos vienen bien amarrados y la madera es maciza.", Author: "Humberto G.", Location: "Quinta Bosch"},
			{ID: 8, Text: "Siempre pido para el almuerzo. Cumplidos con la carga.", Author: "Pizza & Leña", Location: "Caobos"},
			{ID: 9, Text: "Barato y bueno. Con un rollo armé la fogata en la finca.", Author: "Camilo R.", Location: "Villa del Rosario"},
			{ID: 10, Text: "Me salvaron el negocio, no tenía gas y llegaron rápido con la leña para la sopa.", Author: "Martha S.", Location: "Atalaya"},
			{ID: 11, Text: "Para el sancocho del domingo apenas fue. Esos rollos rinden mucho.", Author: "Doña Carmen", Location: "San Rafael"},
			{ID: 12, Text: "Buena atención. Pedí 2 cargas para el restaurante y me dieron buen precio.", Author: "Restaurante La Fogata", Location: "El Bosque"},
			{ID: 13, Text: "La leña está sequita, nada de humo. Recomendado 100%.", Author: "Julián T.", Location: "Colsag"},
			{ID: 14, Text: "Me urgía para un evento y llegaron a tiempo. Muy serios.", Author: "Eventos Cúcuta", Location: "Quinta Oriental"},
			{ID: 15, Text: "Primera vez que pido por aquí y todo excelente. El muchacho muy amable.", Author: "Andrea P.", Location: "Guaimaral"},
			{ID: 16, Text: "Esos rollos vienen bien despachados, no como en otros.", Author: "Sr. Pedro", Location: "Loma de Bolívar"},
			{ID: 17, Text: "Calidad total. La uso para ahumar carnes y da buen sabor.", Author: "Chef Mario", Location: "Los Patios"},
			{ID: 18, Text: "Servicio rápido, no tocó esperar tanto.", Author: "Luisa F.", Location: "San Mateo"},
			{ID: 19, Text: "Ya soy cliente fijo. Mandan lo que es.", Author: "Asados El Gordo", Location: "La Libertad"},
			{ID: 20, Text: "Práctico pedir por acá. Uno se evita la vuelta.", Author: "Felipe S.", Location: "Niza"},
		},
	}
}
