package knowledge

// DefaultDocument returns the built-in knowledge base. It covers the
// labels the disease classifier can emit plus the conditions users ask
// about most, and doubles as the template written by the init command.
// The list order is deliberate: free-text matching scans it front to back.
func DefaultDocument() Document {
	return Document{
		Conditions: []ConditionRecord{
			{
				Name:        "Eczema",
				Description: "A chronic inflammatory skin condition causing dry, itchy and inflamed patches, often in skin folds.",
				Symptoms:    []string{"Intense itching", "Dry, scaly patches", "Redness and inflammation", "Small fluid-filled blisters", "Thickened, cracked skin"},
				Keywords:    []string{"itchy", "dry patches", "atopic", "flare", "inflamed skin"},
				Treatments: Treatments{
					Topical:  []string{"Fragrance-free moisturizer applied twice daily", "Low-potency hydrocortisone cream", "Colloidal oatmeal baths"},
					Systemic: []string{"Oral antihistamines for itching", "Prescription immunosuppressants for severe cases"},
				},
				RedFlags: []string{"Signs of infection (pus, golden crusting)", "Widespread weeping lesions", "Fever accompanying a flare"},
			},
			{
				Name:        "Psoriasis",
				Description: "An autoimmune condition that speeds up skin cell turnover, producing thick, silvery scales on red plaques.",
				Symptoms:    []string{"Raised red plaques with silvery scales", "Itching or burning", "Pitted or thickened nails", "Dry, cracked skin that may bleed"},
				Keywords:    []string{"plaques", "silvery scales", "scaly elbows", "autoimmune skin"},
				Treatments: Treatments{
					Topical:  []string{"Coal tar preparations", "Topical corticosteroids", "Vitamin D analogue creams (calcipotriene)"},
					Systemic: []string{"Phototherapy", "Methotrexate or biologics for severe disease"},
				},
				RedFlags: []string{"Joint pain or swelling (possible psoriatic arthritis)", "Plaques covering a large body area"},
			},
			{
				Name:        "Acne",
				Description: "A common condition where hair follicles become clogged with oil and dead skin cells, producing pimples and comedones.",
				Symptoms:    []string{"Whiteheads and blackheads", "Inflamed pimples or pustules", "Painful cysts under the skin", "Oily skin"},
				Keywords:    []string{"pimples", "breakout", "blackheads", "whiteheads", "zits", "oily skin"},
				Treatments: Treatments{
					Topical:  []string{"Benzoyl peroxide wash or gel", "Adapalene (retinoid) gel", "Salicylic acid cleanser"},
					Systemic: []string{"Oral antibiotics for moderate cases", "Isotretinoin for severe cystic acne"},
				},
			},
			{
				Name:        "Tinea Ringworm",
				Description: "A contagious fungal infection of the skin producing an expanding, ring-shaped rash with a clearer center.",
				Symptoms:    []string{"Circular, ring-shaped rash", "Raised, scaly border", "Itching inside the ring", "Spreading outward over days"},
				Keywords:    []string{"ringworm", "fungal", "ring shaped", "circular rash", "athlete's foot"},
				Treatments: Treatments{
					Topical:  []string{"Clotrimazole or terbinafine cream for 2-4 weeks", "Keep the area clean and dry", "Antifungal powder for skin folds"},
					Systemic: []string{"Oral antifungals for scalp or nail involvement"},
				},
				RedFlags: []string{"Rash spreading despite two weeks of treatment", "Involvement of the scalp"},
			},
			{
				Name:        "Contact Dermatitis",
				Description: "An itchy rash triggered by direct contact with an irritant or allergen such as nickel, soaps or poison ivy.",
				Symptoms:    []string{"Red rash confined to the contact area", "Itching or burning", "Blisters that may weep", "Swelling"},
				Keywords:    []string{"allergic rash", "irritant", "nickel", "poison ivy", "new soap"},
				Treatments: Treatments{
					Topical:  []string{"Wash the area and avoid the trigger", "Cool compresses", "Hydrocortisone cream for itching"},
					Systemic: []string{"Oral antihistamines", "Short steroid course for severe reactions"},
				},
			},
			{
				Name:        "Melanoma",
				Description: "The most serious form of skin cancer, arising in pigment cells. Early detection is critical.",
				Symptoms:    []string{"A new or changing mole", "Asymmetric shape or irregular border", "Multiple colors within one lesion", "Diameter larger than 6mm", "A mole that itches or bleeds"},
				Keywords:    []string{"changing mole", "dark spot", "irregular mole", "skin cancer"},
				Treatments: Treatments{
					Topical:  []string{"No topical self-treatment; protect the area from sun until evaluated"},
					Systemic: []string{"Urgent dermatologist evaluation", "Surgical excision", "Immunotherapy for advanced disease"},
				},
				RedFlags: []string{"Any mole changing in size, shape or color", "A lesion that bleeds without injury", "A sore that does not heal"},
			},
			{
				Name:        "Cuts",
				Description: "Breaks in the skin from sharp objects. Most heal with basic first aid but deep wounds need medical closure.",
				Symptoms:    []string{"Bleeding", "Pain at the wound site", "Open skin edges"},
				Keywords:    []string{"cut myself", "laceration", "bleeding wound", "gash"},
				Treatments: Treatments{
					Topical:  []string{"Apply direct pressure until bleeding stops", "Rinse with clean water", "Cover with a sterile bandage", "Antibiotic ointment once clean"},
				},
				RedFlags: []string{"Bleeding that does not stop after 10 minutes of pressure", "A wound with visible fat or muscle", "Numbness beyond the wound"},
			},
			{
				Name:        "Burns",
				Description: "Skin injury from heat, chemicals or sun. Severity ranges from superficial redness to full-thickness damage.",
				Symptoms:    []string{"Redness and pain", "Blistering", "Peeling after a few days", "White or charred areas in severe burns"},
				Keywords:    []string{"burned", "scald", "sunburn", "blister from heat"},
				Treatments: Treatments{
					Topical:  []string{"Cool (not ice-cold) running water for 20 minutes", "Aloe vera gel for minor burns", "Loose, non-stick dressing"},
				},
				RedFlags: []string{"Burns larger than the palm of the hand", "Burns on the face, hands or joints", "White, leathery or painless areas"},
			},
			{
				Name:        "Healthy Skin",
				Description: "No signs of disease. Consistent daily care and sun protection keep it that way.",
				Symptoms:    []string{"Even tone without new lesions", "No persistent itching or scaling"},
				Keywords:    []string{"healthy", "normal skin"},
				Treatments: Treatments{
					Topical: []string{"Daily moisturizer", "Broad-spectrum SPF 30+ sunscreen", "Gentle cleanser"},
				},
			},
		},
		GeneralAdvice: GeneralAdvice{
			DailyCare: []string{
				"Cleanse with a gentle, fragrance-free wash twice daily",
				"Moisturize within three minutes of bathing",
				"Apply broad-spectrum SPF 30+ sunscreen every morning",
				"Avoid very hot showers; use lukewarm water",
				"Stay hydrated and eat a balanced diet",
				"Check your skin monthly for new or changing spots",
			},
		},
		DiagnosticTools: DiagnosticTools{
			MolesABCDE: map[string]string{
				"A": "Asymmetry: one half does not match the other",
				"B": "Border: edges are irregular, ragged or blurred",
				"C": "Color: shades of brown, black, red or blue within one mole",
				"D": "Diameter: larger than 6mm (about a pencil eraser)",
				"E": "Evolving: changing in size, shape or color over time",
			},
		},
	}
}
