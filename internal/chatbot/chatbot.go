// Package chatbot implements the site assistant's canned-reply selector: an
// ordered list of keyword rules evaluated in sequence, first match wins,
// with a default fallback.
package chatbot

import "strings"

// Greeting opens every conversation.
const Greeting = "Bonjour ! Je suis votre assistant virtuel. Comment puis-je vous aider aujourd'hui ?"

type rule struct {
	keywords []string
	reply    string
}

// Rule order matters: earlier rules shadow later ones.
var rules = []rule{
	{
		keywords: []string{"bonjour", "salut", "hello"},
		reply:    "Bonjour ! Je suis l'assistant de VILO ASSIST-PRO. Comment puis-je vous aider aujourd'hui ? 😊",
	},
	{
		keywords: []string{"qui êtes-vous", "vilo", "présentez"},
		reply:    "VILO ASSIST-PRO est votre assistant virtuel professionnel basé à Madagascar, spécialisé en support administratif et services de télésecrétariat depuis plus de 5 ans.",
	},
	{
		keywords: []string{"service", "offre", "prestation"},
		reply:    "Nous proposons :\n- Assistant administratif\n- Support client\n- Télésecrétariat médical/juridique\n- Gestion pré-comptable\n- Transcription audio/vidéo\n- Saisie de données\n\nLequel vous intéresse ?",
	},
	{
		keywords: []string{"prix", "tarif", "coût", "combien"},
		reply:    "Notre tarif est de 10€/heure pour tous services. Exemple :\n10h/semaine = 400€/mois\n20h/semaine = 800€/mois\n\nBesoin d'une estimation précise ?",
	},
	{
		keywords: []string{"contact", "joindre", "appeler"},
		reply:    "Vous pouvez nous contacter :\n📞 +261 33 21 787 85\n📧 info@viloassistpro.com\n💬 WhatsApp disponible\n\nSouhaitez-vous programmer un appel ?",
	},
	{
		keywords: []string{"délai", "temps", "disponibilité"},
		reply:    "Nous intervenons sous 1-3 jours. Notre équipe est disponible du lundi au vendredi de 8h à 18h (GMT+3). Urgence ? Nous avons une option express !",
	},
	{
		keywords: []string{"confident", "sécurité", "données"},
		reply:    "Nous garantissons :\n- NDA systématique\n- Chiffrement des données\n- Accès sécurisé\n\nVos informations sont 100% protégées.",
	},
	{
		keywords: []string{"process", "commencer", "démarrage"},
		reply:    "Notre processus :\n1. Appel découverte gratuit\n2. Proposition sur mesure\n3. Mise en place (1-3j)\n4. Lancement avec suivi\n\nIntéressé(e) ?",
	},
	{
		keywords: []string{"client", "témoignage", "avis"},
		reply:    "Nos clients disent :\n\"Professionnalisme remarquable\" - Marie D.\n\"Réactivité exceptionnelle\" - Pierre M.\n98% de satisfaction !",
	},
	{
		keywords: []string{"urgent", "immédiat", "rapide"},
		reply:    "Pour les urgences :\n📞 +261 33 21 787 85 (dites \"URGENT\")\n⚡ Option express (+20%)\nDémarrage sous 24h !",
	},
	{
		keywords: []string{"merci", "remercie"},
		reply:    "Je vous en prie ! 😊 Pour un conseiller humain : +261 33 21 787 85.",
	},
	{
		keywords: []string{"au revoir", "bye", "à bientôt"},
		reply:    "Au revoir ! Merci d'avoir choisi VILO ASSIST-PRO. Contactez-nous au +261 33 21 787 85 pour toute question.",
	},
}

const fallback = "Je n'ai pas saisi votre demande. Voici ce que je peux expliquer :\n• Nos services\n• Nos tarifs (10€/h)\n• Notre processus\n• Nos garanties\n\nQuel sujet vous intéresse ?"

// Reply returns the canned response for a visitor message.
func Reply(message string) string {
	msg := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.reply
			}
		}
	}
	return fallback
}
